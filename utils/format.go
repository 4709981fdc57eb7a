package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateTimeLayoutID mirrors the id-ID short date-time rendering, e.g. "17/8/2025, 14.30.00"
const DateTimeLayoutID = "2/1/2006, 15.04.05"

var (
	idPrinter = message.NewPrinter(language.Indonesian)
	nonDigit  = regexp.MustCompile(`[^0-9]`)
)

// FormatRupiah renders a whole-rupiah amount with id-ID digit grouping, e.g. "Rp 21.000"
func FormatRupiah(amount int64) string {
	return fmt.Sprintf("Rp %s", idPrinter.Sprintf("%d", amount))
}

// FormatDateTimeID renders t in loc using the id-ID short format
func FormatDateTimeID(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLayoutID)
}

// FormatWeight prints a weight without trailing zeros, e.g. 3 or 2.5
func FormatWeight(kg float64) string {
	return strconv.FormatFloat(kg, 'f', -1, 64)
}

// DigitsOnly strips everything but 0-9, used for phone numbers in share links
func DigitsOnly(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

var pickupLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParsePickupTime accepts RFC 3339 or an HTML datetime-local value.
// Values without a zone are read in loc.
func ParsePickupTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range pickupLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized pickup time %q", s)
}
