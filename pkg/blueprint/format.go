package blueprint

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the UK day/month/year layout used in reports.
const DateLayout = "02/01/2006"

var printer = message.NewPrinter(language.BritishEnglish)

// FormatGBP formats amount as pounds sterling with thousands separators,
// e.g. "£2,500.50" or "-£10.00".
func FormatGBP(amount float64) string {
	pence := math.Round(amount * 100)
	sign := ""
	if pence < 0 {
		sign = "-"
	}
	return sign + "£" + printer.Sprintf("%.2f", math.Abs(pence)/100)
}

// FormatPercent formats a percentage with one decimal place, e.g. "12.5%".
func FormatPercent(pct float64) string {
	return printer.Sprintf("%.1f", pct) + "%"
}

// FormatDate formats t as a UK date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Lines renders b as plain report lines: the title, a byline, then each
// section under an underlined heading. Lines are not wrapped.
func Lines(b *Blueprint) []string {
	lines := []string{b.Title}

	byline := "Prepared"
	if b.Owner != "" {
		byline += " for " + b.Owner
	}
	if !b.CreatedAt.IsZero() {
		byline += " on " + FormatDate(b.CreatedAt)
	}
	lines = append(lines, byline)

	for _, s := range b.Sections {
		lines = append(lines, "", s.Title, strings.Repeat("-", utf8.RuneCountInString(s.Title)))
		for _, e := range s.Entries {
			lines = append(lines, e.Label+": "+e.Value)
		}
		for _, bullet := range s.Bullets {
			lines = append(lines, "- "+bullet)
		}
		if s.Notes != "" {
			if len(s.Entries) > 0 || len(s.Bullets) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, strings.Split(s.Notes, "\n")...)
		}
	}
	return lines
}
