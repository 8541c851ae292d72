package report

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Input rows are positional: date, account, description, debit, credit.
// Rows with fewer fields are tolerated; missing fields read as empty.
const (
	fieldDate    = 0
	fieldAccount = 1
	fieldDebit   = 3
	fieldCredit  = 4
)

func splitRow(line string) []string {
	return strings.Split(line, ",")
}

func field(fields []string, index int) string {
	if index < len(fields) {
		return fields[index]
	}
	return ""
}

// toNumber converts a raw field to a float. Missing values default to 0;
// unparseable values propagate as NaN through the accumulators.
func toNumber(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// formatAmount renders a balance with exactly two decimals. NaN rows
// render as "NaN", matching the accumulator semantics.
func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006/01/02",
}

// parseYear extracts the calendar year from a date field. Unparseable
// dates are dropped rather than failing the run.
func parseYear(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return strconv.Itoa(t.Year()), true
		}
	}
	return "", false
}
