package dropin

import (
	"fmt"
	"strings"
)

// BuildExtractionPrompt builds the instruction sent to the model for one
// cleaned schedule table. year is used for period dates that omit the year.
func BuildExtractionPrompt(cleanedTable string, year int) string {
	var sb strings.Builder
	sb.WriteString("Extract all schedule entries from this HTML table and return a JSON array.\n")
	sb.WriteString("Each object should have these exact fields:\n")
	fmt.Fprintf(&sb, "- %s: string (remove text after * including the *)\n", FieldActivity)
	fmt.Fprintf(&sb, "- %s: string in HH:MM format (24-hour)\n", FieldStartTime)
	fmt.Fprintf(&sb, "- %s: string in HH:MM format (24-hour)\n", FieldEndTime)
	fmt.Fprintf(&sb, "- %s: string in YYYY-MM-DD format\n", FieldPeriodStartDate)
	fmt.Fprintf(&sb, "- %s: string in YYYY-MM-DD format\n", FieldPeriodEndDate)
	fmt.Fprintf(&sb, "- %s: number (1=Monday, 2=Tuesday, ..., 7=Sunday)\n", FieldDayOfWeek)
	sb.WriteString("\nRules:\n")
	fmt.Fprintf(&sb, "- Use %d for missing years\n", year)
	sb.WriteString("- Use null for unclear values\n")
	sb.WriteString("- Convert day names to numbers (Monday=1, Sunday=7)\n")
	sb.WriteString("- Return only valid JSON array, no explanations\n")
	sb.WriteString("- Only use ASCII characters\n")
	sb.WriteString("\nHTML table: ")
	sb.WriteString(cleanedTable)
	sb.WriteString("\n")
	return sb.String()
}
