package utils

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RupeesPerLakh is the number of rupees in one lakh
const RupeesPerLakh = 100000

// DefaultLocale is used when the configured locale cannot be parsed
const DefaultLocale = "en-IN"

// PriceFormatter renders estimates for display
type PriceFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewPriceFormatter creates a formatter grouping digits the way locale does
func NewPriceFormatter(locale string) *PriceFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse(DefaultLocale)
	}
	return &PriceFormatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// Locale returns the BCP 47 tag used for grouping
func (f *PriceFormatter) Locale() string {
	return f.tag.String()
}

// Lakhs renders the estimate as returned by the service, e.g. "85.4"
func (f *PriceFormatter) Lakhs(lakhs float64) string {
	return strconv.FormatFloat(lakhs, 'f', -1, 64)
}

// Rupees converts lakhs to whole rupees and groups the digits, e.g.
// "85,40,000" for 85.4 lakhs in en-IN
func (f *PriceFormatter) Rupees(lakhs float64) string {
	return f.printer.Sprintf("%d", toRupees(lakhs))
}

// toRupees rounds to whole rupees, saturating at the int64 range
func toRupees(lakhs float64) int64 {
	r := math.Round(lakhs * RupeesPerLakh)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}
