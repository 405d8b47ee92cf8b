package sqlite

import "context"

// ExecForTest runs a raw statement against db.
func ExecForTest(ctx context.Context, db *DB, query string) error {
	_, err := db.db.ExecContext(ctx, query)
	return err
}
