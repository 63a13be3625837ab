// Package view derives the visible project list from the full state.
package view

import (
	"regexp"
	"strconv"
	"strings"

	"planboard/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Filter narrows the project list. An empty Status shows all statuses.
type Filter struct {
	Search string       `json:"search"`
	Status model.Status `json:"status"`
}

func (f Filter) Active() bool {
	return strings.TrimSpace(f.Search) != "" || f.Status != ""
}

// Apply returns the projects matching f in their original order.
// Search is a case-insensitive substring match on location, name and client.
func Apply(projects []model.Project, f Filter) []model.Project {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p model.Project, q string) bool {
	for _, field := range []string{p.Location, p.Name, p.Client} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// TotalSum adds up the totals of projects.
func TotalSum(projects []model.Project) float64 {
	var sum float64
	for _, p := range projects {
		sum += p.Total
	}
	return sum
}

var printer = message.NewPrinter(language.German)

// FormatAmount renders v with German digit grouping, e.g. "1.234.567,5".
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// groupedThousands matches German digit grouping without decimals, e.g. "1.234.567".
var groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// ParseAmount reads a user-entered amount. It accepts "1234.5", "1234,5", "1.234,5"
// and the grouping FormatAmount prints, so "1.234" is 1234.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	s = strings.TrimSuffix(s, "€")
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case groupedThousands.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return strconv.ParseFloat(s, 64)
}

// FormatEuro is FormatAmount with a trailing euro sign.
func FormatEuro(v float64) string {
	return FormatAmount(v) + " €"
}
