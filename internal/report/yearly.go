package report

import (
	"sort"
	"strings"
)

// yearlyAggregator accumulates the Cash balance per calendar year.
type yearlyAggregator struct {
	cashByYear map[string]float64
}

func newYearlyAggregator() aggregator {
	return &yearlyAggregator{cashByYear: make(map[string]float64)}
}

func (y *yearlyAggregator) excludeInput() string {
	return "yearly.csv"
}

func (y *yearlyAggregator) consumeRow(fields []string) bool {
	if field(fields, fieldAccount) != "Cash" {
		return false
	}
	year, ok := parseYear(field(fields, fieldDate))
	if !ok {
		return false
	}
	y.cashByYear[year] += toNumber(field(fields, fieldDebit)) - toNumber(field(fields, fieldCredit))
	return true
}

func (y *yearlyAggregator) render() []byte {
	years := make([]string, 0, len(y.cashByYear))
	for year := range y.cashByYear {
		years = append(years, year)
	}
	sort.Strings(years)

	lines := make([]string, 0, len(years)+1)
	lines = append(lines, "Financial Year,Cash Balance")
	for _, year := range years {
		lines = append(lines, year+","+formatAmount(y.cashByYear[year]))
	}
	return []byte(strings.Join(lines, "\n"))
}
