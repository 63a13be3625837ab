// Package calendar maps dates onto the 52 timeline weeks.
package calendar

import (
	"time"

	"planboard/internal/model"
)

// CurrentWeek returns the timeline week containing now, clamped to 1..52.
// Weeks start on Sunday; week 1 is the (possibly partial) week holding January 1.
func CurrentWeek(now time.Time) int {
	day := now.YearDay() - 1
	jan1 := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	week := (day + int(jan1.Weekday()) + 1 + 6) / 7
	return clamp(week)
}

func clamp(w int) int {
	if w < 1 {
		return 1
	}
	if w > model.WeeksPerYear {
		return model.WeeksPerYear
	}
	return w
}

var monthNames = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

// MonthName returns the German name of m.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// MonthInfo is one cell of the month header row: a month spanning consecutive weeks.
type MonthInfo struct {
	Month     time.Month `json:"month"`
	Name      string     `json:"name"`
	FirstWeek int        `json:"firstWeek"`
	LastWeek  int        `json:"lastWeek"`
}

// Span is the number of week columns the month covers.
func (m MonthInfo) Span() int {
	return m.LastWeek - m.FirstWeek + 1
}

// MonthOfWeek returns the month a timeline week belongs to: the month of its Thursday.
// Thursdays falling into the neighbouring year count as January or December.
func MonthOfWeek(year, week int) time.Month {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := (week-1)*7 - int(jan1.Weekday()) + 4
	thu := jan1.AddDate(0, 0, offset)
	switch {
	case thu.Year() < year:
		return time.January
	case thu.Year() > year:
		return time.December
	}
	return thu.Month()
}

// Months groups weeks 1..52 of year under their months, in order.
func Months(year int) []MonthInfo {
	var out []MonthInfo
	for w := 1; w <= model.WeeksPerYear; w++ {
		m := MonthOfWeek(year, w)
		if n := len(out); n > 0 && out[n-1].Month == m {
			out[n-1].LastWeek = w
			continue
		}
		out = append(out, MonthInfo{Month: m, Name: MonthName(m), FirstWeek: w, LastWeek: w})
	}
	return out
}
