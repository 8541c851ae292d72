package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	require.Equal(t, 0.0, toNumber(""))
	require.Equal(t, 0.0, toNumber("   "))
	require.Equal(t, 12.5, toNumber("12.5"))
	require.Equal(t, -3.0, toNumber("-3"))
	require.Equal(t, 100.0, toNumber(" 100 "))
	require.True(t, math.IsNaN(toNumber("abc")))
}

func TestFieldToleratesShortRows(t *testing.T) {
	fields := splitRow("2020-01-01,Cash")
	require.Equal(t, "Cash", field(fields, fieldAccount))
	require.Equal(t, "", field(fields, fieldDebit))
	require.Equal(t, "", field(fields, fieldCredit))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "60.00", formatAmount(60))
	require.Equal(t, "-0.50", formatAmount(-0.5))
	require.Equal(t, "NaN", formatAmount(math.NaN()))
}

func TestParseYear(t *testing.T) {
	year, ok := parseYear("2020-03-15")
	require.True(t, ok)
	require.Equal(t, "2020", year)

	year, ok = parseYear("2019-01-02T10:00:00Z")
	require.True(t, ok)
	require.Equal(t, "2019", year)

	_, ok = parseYear("not-a-date")
	require.False(t, ok)
	_, ok = parseYear("")
	require.False(t, ok)
}
