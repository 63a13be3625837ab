package view

import (
	"testing"

	"planboard/internal/model"
)

func projects() []model.Project {
	return []model.Project{
		{ID: "1", Location: "Hoyerswerda", Name: "Kita", Client: "Stadt", Status: model.StatusAuftrag, Total: 1000},
		{ID: "2", Location: "Dresden", Name: "Gymnasium", Client: "Land Sachsen", Status: model.StatusAngebot, Total: 2500.5},
		{ID: "3", Location: "Berlin", Name: "Büro", Client: "Stadtwerke", Status: model.StatusAngebot, Total: 0},
	}
}

func ids(ps []model.Project) string {
	s := ""
	for _, p := range ps {
		s += p.ID
	}
	return s
}

func TestApply(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		f    Filter
		want string
	}{
		{name: "no filter keeps order", f: Filter{}, want: "123"},
		{name: "search is case-insensitive on client", f: Filter{Search: "STADT"}, want: "13"},
		{name: "search matches location", f: Filter{Search: "dres"}, want: "2"},
		{name: "search matches name", f: Filter{Search: "büro"}, want: "3"},
		{name: "status only", f: Filter{Status: model.StatusAngebot}, want: "23"},
		{name: "search and status", f: Filter{Search: "stadt", Status: model.StatusAngebot}, want: "3"},
		{name: "no match", f: Filter{Search: "leipzig"}, want: ""},
		{name: "surrounding spaces are ignored", f: Filter{Search: "  dres "}, want: "2"},
		{name: "blank search shows all", f: Filter{Search: "   "}, want: "123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Apply(projects(), tc.f)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestApply_DoesNotAliasInput(t *testing.T) {
	in := projects()
	out := Apply(in, Filter{})
	out[0].Name = "changed"
	if in[0].Name == "changed" {
		t.Fatalf("expected Apply to return a new slice")
	}
}

func TestTotalSumAndFormat(t *testing.T) {
	sum := TotalSum(Apply(projects(), Filter{Status: model.StatusAngebot}))
	if sum != 2500.5 {
		t.Fatalf("expected 2500.5, got %v", sum)
	}
	if got := FormatEuro(1234567); got != "1.234.567 €" {
		t.Fatalf("unexpected euro format: %q", got)
	}
	if got := FormatAmount(2500.5); got != "2.500,5" {
		t.Fatalf("unexpected amount format: %q", got)
	}
	if got := FormatEuro(0); got != "0 €" {
		t.Fatalf("unexpected zero format: %q", got)
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := map[string]float64{
		"1234.5":     1234.5,
		"1234,5":     1234.5,
		"1.234,5":    1234.5,
		"1.234,50 €": 1234.5,
		"1.234":      1234,
		"1.234.567":  1234567,
		"12.5":       12.5,
		"0":          0,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Fatalf("ParseAmount(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAmount("viel"); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
	for _, v := range []float64{1234, 486500, 2140000} {
		got, err := ParseAmount(FormatEuro(v))
		if err != nil || got != v {
			t.Fatalf("ParseAmount(FormatEuro(%v)) = %v, %v", v, got, err)
		}
	}
}
