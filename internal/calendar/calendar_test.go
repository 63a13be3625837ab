package calendar

import (
	"testing"
	"time"
)

func TestCurrentWeek(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		date time.Time
		want int
	}{
		{name: "jan 1 is week 1", date: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), want: 1},
		{name: "jan 1 on a saturday", date: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), want: 1},
		{name: "day after saturday jan 1 starts week 2", date: time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC), want: 2},
		{name: "dec 31 clamps to 52", date: time.Date(2022, 12, 31, 23, 0, 0, 0, time.UTC), want: 52},
		{name: "leap year dec 31", date: time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), want: 52},
		{name: "mid march", date: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC), want: 11},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CurrentWeek(tc.date); got != tc.want {
				t.Fatalf("expected week %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCurrentWeek_AlwaysInRange(t *testing.T) {
	d := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 366*2; i++ {
		w := CurrentWeek(d.AddDate(0, 0, i))
		if w < 1 || w > 52 {
			t.Fatalf("week %d out of range for %s", w, d.AddDate(0, 0, i).Format("2006-01-02"))
		}
	}
}

func TestMonths(t *testing.T) {
	ms := Months(2025)
	if len(ms) != 12 {
		t.Fatalf("expected 12 months, got %d", len(ms))
	}
	if ms[0].Name != "Januar" || ms[0].FirstWeek != 1 {
		t.Fatalf("unexpected first month: %#v", ms[0])
	}
	if ms[11].Name != "Dezember" || ms[11].LastWeek != 52 {
		t.Fatalf("unexpected last month: %#v", ms[11])
	}
	total := 0
	for i, m := range ms {
		total += m.Span()
		if i > 0 && m.FirstWeek != ms[i-1].LastWeek+1 {
			t.Fatalf("months not contiguous at %s", m.Name)
		}
	}
	if total != 52 {
		t.Fatalf("expected spans to cover 52 weeks, got %d", total)
	}
}
