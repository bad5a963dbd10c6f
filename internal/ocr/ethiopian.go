// internal/ocr/ethiopian.go
package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// The Ethiopian calendar runs roughly seven years behind the Gregorian
// calendar. The conversion here applies a fixed +7/-7 year shift and passes
// month and day through unchanged. The true offset varies around the
// Ethiopian New Year (September) and the 13th month, but the review UI and
// the stored Ethiopian-variant fields assume the fixed-offset model, so the
// approximation is kept as-is. Flagged for product review, not a bug to fix
// here.
const ethiopianYearOffset = 7

var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

// ToGregorian converts an Ethiopian-calendar YYYY-MM-DD string to its
// Gregorian equivalent. Returns "" for anything that does not look like a
// numeric YYYY-MM-DD date.
func ToGregorian(ethiopianDate string) string {
	return shiftYear(ethiopianDate, ethiopianYearOffset)
}

// ToEthiopian converts a Gregorian YYYY-MM-DD string to its Ethiopian
// equivalent. Returns "" on malformed input.
func ToEthiopian(gregorianDate string) string {
	return shiftYear(gregorianDate, -ethiopianYearOffset)
}

func shiftYear(date string, offset int) string {
	m := isoDatePattern.FindStringSubmatch(strings.TrimSpace(date))
	if m == nil {
		return ""
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		zap.L().Debug("date conversion failed", zap.String("date", date), zap.Error(err))
		return ""
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	return fmt.Sprintf("%04d-%02d-%02d", year+offset, month, day)
}

// Markers that identify an Ethiopian-calendar date in OCR text. "ዓ.ም" is the
// Amharic abbreviation, "E.C." the Latin one.
var (
	ethiopianMarkers = []string{"E.C.", "ዓ.ም"}

	isoWithMarker   = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})\s*(?:E\.C\.|ዓ\.ም)`)
	slashWithMarker = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})\s*(?:E\.C\.|ዓ\.ም)`)
	digitRuns       = regexp.MustCompile(`\d+`)
)

// ContainsEthiopianMarker reports whether the text carries one of the
// Ethiopian calendar markers.
func ContainsEthiopianMarker(text string) bool {
	for _, marker := range ethiopianMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// ExtractEthiopianDate pulls an Ethiopian-calendar date out of free OCR text
// and re-emits it as zero-padded YYYY-MM-DD. Patterns are tried in order,
// first match wins:
//
//  1. YYYY-MM-DD followed by an Ethiopian marker
//  2. DD/MM/YYYY followed by an Ethiopian marker
//  3. the first three digit runs in the text, read as year/month/day, when
//     the first run is four digits and month/day are in range
//
// Returns "" when nothing matches. Never panics; OCR text is untrusted and
// this function has to be total.
func ExtractEthiopianDate(text string) string {
	if m := isoWithMarker.FindStringSubmatch(text); m != nil {
		return padDate(m[1], m[2], m[3])
	}

	if m := slashWithMarker.FindStringSubmatch(text); m != nil {
		return padDate(m[3], m[2], m[1])
	}

	runs := digitRuns.FindAllString(text, -1)
	if len(runs) < 3 {
		return ""
	}
	if len(runs[0]) != 4 {
		return ""
	}
	month, err := strconv.Atoi(runs[1])
	if err != nil || month < 1 || month > 12 {
		return ""
	}
	// Day range only; day 31 is accepted for any month since the Ethiopian
	// calendar's month lengths are not modelled here.
	day, err := strconv.Atoi(runs[2])
	if err != nil || day < 1 || day > 31 {
		return ""
	}

	return padDate(runs[0], runs[1], runs[2])
}

func padDate(year, month, day string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
