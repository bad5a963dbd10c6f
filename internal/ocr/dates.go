// internal/ocr/dates.go
package ocr

import (
	"strings"
	"time"
)

// Layouts accepted when parsing a date-ish string coming back from the OCR
// engine or from user edits in the review UI.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"January 2, 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatForDisplay renders a date in long form ("April 15, 2020") for the
// review UI. Unparsable input is echoed back unchanged so the reviewer still
// sees whatever the OCR engine produced.
func FormatForDisplay(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatForInput renders a date strictly as YYYY-MM-DD for date-picker
// controls. Unparsable input becomes "", not the raw text: a date input
// cannot hold garbage. The asymmetry with FormatForDisplay is deliberate.
func FormatForInput(date string) string {
	t, ok := parseDate(date)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}
