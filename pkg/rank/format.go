package rank

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// humanThreshold is the chart extent above which values use magnitude suffixes.
const humanThreshold = 10000

var suffixes = []string{"", "K", "M", "B", "T"}

// German grouping uses a period as the thousands separator.
var groupPrinter = message.NewPrinter(language.German)

// HumanFormat rounds num to three significant digits and abbreviates it with a
// magnitude suffix: 12345 → "12.3K", 1000000 → "1M".
func HumanFormat(num float64) string {
	num, _ = strconv.ParseFloat(strconv.FormatFloat(num, 'g', 3, 64), 64)
	mag := 0
	for math.Abs(num) >= 1000 && mag < len(suffixes)-1 {
		mag++
		num /= 1000
	}
	s := strconv.FormatFloat(num, 'f', 6, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s + suffixes[mag]
}

// GroupedFormat rounds num to an integer and groups thousands with periods:
// 1234567 → "1.234.567".
func GroupedFormat(num float64) string {
	return groupPrinter.Sprintf("%d", int64(math.Round(num)))
}

// FormatValue picks the value format for a chart whose tallest column sums to
// maxRowLength.
func FormatValue(value, maxRowLength float64) string {
	if maxRowLength > humanThreshold {
		return HumanFormat(value)
	}
	return GroupedFormat(value)
}
