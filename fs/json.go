// Package fs stores scrape output and the table cache as JSON files.
package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/ottawa-dropin/dropin"
)

// writeJSON writes v to path as indented UTF-8 JSON. Non-ASCII text and
// markup characters are written as is. The file is written to a temporary
// sibling and renamed into place, so readers never see a partial file.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readJSON decodes the file at path into v.
// A missing file is ENOTFOUND; undecodable content is EINVALID.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return dropin.Errorf(dropin.ENOTFOUND, "%s does not exist", path)
	} else if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return dropin.Errorf(dropin.EINVALID, "%s is not valid JSON: %v", path, err)
	}
	return nil
}
