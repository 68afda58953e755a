// Package locale formats dates, months and amounts the way they are printed
// on receipts and written to the payment log (Spanish, Argentina).
package locale

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Tag is the locale used for number formatting.
var Tag = language.MustParse("es-AR")

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the lowercase Spanish month name.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthFolder returns the capitalized month name used as a folder, e.g. "Marzo".
func MonthFolder(t time.Time) string {
	return capitalize(MonthName(t.Month()))
}

// ParseMonthToken splits a YYYY-MM token.
func ParseMonthToken(token string) (year int, month time.Month, ok bool) {
	y, m, found := strings.Cut(token, "-")
	if !found || len(y) != 4 || len(m) != 2 {
		return 0, 0, false
	}
	yi, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	mi, err := strconv.Atoi(m)
	if err != nil || mi < 1 || mi > 12 {
		return 0, 0, false
	}
	return yi, time.Month(mi), true
}

// FormatMonthYear renders "2024-03" as "marzo de 2024". Anything that is not
// a month token is returned unchanged.
func FormatMonthYear(token string) string {
	year, month, ok := ParseMonthToken(token)
	if !ok {
		return token
	}
	return fmt.Sprintf("%s de %d", MonthName(month), year)
}

// TitleMonthYear is FormatMonthYear with the first letter capitalized.
func TitleMonthYear(token string) string {
	return capitalize(FormatMonthYear(token))
}

// FormatAmount renders an amount with two decimals and es-AR separators,
// e.g. 1234.5 -> "1.234,50".
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(Tag)
	return p.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatAmountString parses and formats an amount. Unparsable input is
// returned unchanged.
func FormatAmountString(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return FormatAmount(d)
}

// FormatDate renders a date as d/m/yyyy.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// FormatTime renders a time as HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// ISODate renders a date as YYYY-MM-DD.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
