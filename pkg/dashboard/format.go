package dashboard

import (
	"math/big"
	"strconv"
	"time"
)

// NoData is shown in place of a missing value.
const NoData = "--"

// FormatNumber abbreviates values of 1000 and above to one decimal with a
// "k" suffix (8234 -> "8.2k"). Smaller values print as-is; nil prints "--".
func FormatNumber[T ~int | ~float64](n *T) string {
	if n == nil {
		return NoData
	}
	v := float64(*n)
	if v >= 1000 {
		return strconv.FormatFloat(roundTenth(v/1000), 'f', 1, 64) + "k"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatScore prints a score or "--" when it is absent.
func FormatScore(n *int) string {
	if n == nil {
		return NoData
	}
	return strconv.Itoa(*n)
}

// ToHours converts seconds to hours rounded to one decimal. Absent or zero
// durations give 0.
func ToHours(seconds *int) float64 {
	if seconds == nil || *seconds == 0 {
		return 0
	}
	return roundTenth(float64(*seconds) / 3600)
}

// FormatValue prints a chart value with at most one decimal, or "--".
func FormatValue(v *float64) string {
	if v == nil {
		return NoData
	}
	return strconv.FormatFloat(roundTenth(*v), 'f', -1, 64)
}

// FormatUpdated renders the header timestamp, e.g. "Updated Jan 2, 03:04 PM".
func FormatUpdated(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return "Updated " + t.In(loc).Format("Jan 2, 03:04 PM")
}

// roundTenth rounds to one decimal the way the page's toFixed(1) does. The
// exact binary value is rounded and exact ties go away from zero, so 1.15
// (stored just below) becomes 1.1 while 8.25 becomes 8.3.
func roundTenth(v float64) float64 {
	return float64(tenths(v)) / 10
}

// tenths returns v*10 rounded to an integer without intermediate rounding.
// Negative values round by magnitude.
func tenths(v float64) int64 {
	if v < 0 {
		return -tenths(-v)
	}
	x := new(big.Float).SetPrec(128).SetFloat64(v)
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int64()
	return n
}
