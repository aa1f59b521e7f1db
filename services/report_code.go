package services

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Report code format: {JURISDICTION(1-2)}-{YEAR(4)}-{SERIAL(6)}
// Example: MH-2024-483920
// The 6-digit serial is drawn uniformly from [100000, 999999] so it never
// starts with a zero. The code is the stable human-facing case identifier.
var reportCodePattern = regexp.MustCompile(`^[A-Z]{1,2}-\d{4}-\d{6}$`)

const (
	reportSerialMin = 100000
	reportSerialMax = 999999
)

// ReportCodeComponents contains the parsed components of a report code
type ReportCodeComponents struct {
	Jurisdiction string // 1-2 upper-case letters
	Year         int    // 4 digits
	Serial       string // 6 digits
}

// JurisdictionPrefix normalizes a jurisdiction string into the code prefix:
// the first two letters upper-cased. Non-letter runes are dropped; an input
// shorter than two letters is padded with 'X' so the prefix length stays
// deterministic.
func JurisdictionPrefix(jurisdiction string) string {
	var letters []rune
	for _, r := range strings.TrimSpace(jurisdiction) {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 2 {
				break
			}
		}
	}
	for len(letters) < 2 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

// BuildReportCode constructs a report code for the given jurisdiction and
// year. A zero year means the current year. The caller owns uniqueness: the
// random serial can collide and the report service retries on a duplicate
// key from the store.
func BuildReportCode(jurisdiction string, year int) string {
	if year == 0 {
		year = time.Now().Year()
	}

	serial := reportSerialMin + rand.IntN(reportSerialMax-reportSerialMin+1)
	return fmt.Sprintf("%s-%04d-%06d", JurisdictionPrefix(jurisdiction), year, serial)
}

// ParseReportCode parses a report code string into its components
func ParseReportCode(code string) (*ReportCodeComponents, error) {
	code = strings.TrimSpace(code)

	if !reportCodePattern.MatchString(code) {
		return nil, fmt.Errorf("report code must match JURISDICTION-YEAR-SERIAL (e.g. MH-2024-483920), got %q", code)
	}

	parts := strings.SplitN(code, "-", 3)
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid year in report code %q: %w", code, err)
	}

	return &ReportCodeComponents{
		Jurisdiction: parts[0],
		Year:         year,
		Serial:       parts[2],
	}, nil
}

// ValidateReportCode checks whether a string is a well-formed report code
func ValidateReportCode(code string) bool {
	return reportCodePattern.MatchString(strings.TrimSpace(code))
}
