package web

import (
	"net/url"

	"planboard/internal/calendar"
	"planboard/internal/grid"
	"planboard/internal/model"
	"planboard/internal/view"
)

type pageVM struct {
	Company   string
	Subtitle  string
	Search    string
	Status    string
	Filters   []filterVM
	Statuses  []model.Status
	StreamURL string
	Total     totalVM
	Grid      gridVM
}

type filterVM struct {
	Label  string
	Href   string
	Active bool
}

type totalVM struct {
	Sum   float64
	Count int
}

type gridVM struct {
	CurrentWeek int
	Months      []calendar.MonthInfo
	Weeks       []weekVM
	Rows        []rowVM
	Legend      []model.LegendCode
	Filtered    bool
}

type weekVM struct {
	Week    int
	Current bool
}

type rowVM struct {
	Project    model.Project
	Row        int
	Odd        bool
	Badge      model.Tone
	SiteLead   string
	TeamMember string
	Cells      []cellVM
}

type cellVM struct {
	ID        string
	ProjectID string
	Week      int
	Row       int
	Code      string
	Category  model.Category
	Tone      model.Tone
	Current   bool
}

func (s *Server) gridVM(projects []model.Project, f view.Filter) gridVM {
	weeks := make([]weekVM, 0, model.WeeksPerYear)
	for w := 1; w <= model.WeeksPerYear; w++ {
		weeks = append(weeks, weekVM{Week: w, Current: w == s.week})
	}

	rows := make([]rowVM, 0, len(projects))
	for i, p := range projects {
		cells := make([]cellVM, 0, model.WeeksPerYear)
		for w := 1; w <= model.WeeksPerYear; w++ {
			c := cellVM{
				ID:        grid.CellRef{ProjectID: p.ID, Week: w}.DOMID(),
				ProjectID: p.ID,
				Week:      w,
				Row:       i,
				Tone:      model.ToneNone,
				Current:   w == s.week,
			}
			if e, ok := p.Entry(w); ok && e.Code != "" {
				c.Code = e.Code
				c.Category = e.Category
				c.Tone = p.Status.CellTone()
			}
			cells = append(cells, c)
		}
		rows = append(rows, rowVM{
			Project:    p,
			Row:        i,
			Odd:        i%2 == 1,
			Badge:      p.Status.BadgeTone(),
			SiteLead:   p.SiteLead(),
			TeamMember: p.TeamMember(),
			Cells:      cells,
		})
	}

	return gridVM{
		CurrentWeek: s.week,
		Months:      s.months,
		Weeks:       weeks,
		Rows:        rows,
		Legend:      model.LegendCodes(),
		Filtered:    f.Active(),
	}
}

func (s *Server) pageVM(f view.Filter) pageVM {
	projects := s.board.View(f)

	filters := []filterVM{{Label: "Alle Projekte", Href: filterHref(f.Search, ""), Active: f.Status == ""}}
	for _, st := range model.Statuses() {
		filters = append(filters, filterVM{Label: string(st), Href: filterHref(f.Search, st), Active: f.Status == st})
	}

	return pageVM{
		Company:   s.cfg.Company,
		Subtitle:  s.cfg.Subtitle,
		Search:    f.Search,
		Status:    string(f.Status),
		Filters:   filters,
		Statuses:  model.Statuses(),
		StreamURL: "/events" + filterQuery(f.Search, f.Status),
		Total:     totalVM{Sum: view.TotalSum(projects), Count: len(projects)},
		Grid:      s.gridVM(projects, f),
	}
}

func filterQuery(search string, st model.Status) string {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	if st != "" {
		v.Set("status", string(st))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func filterHref(search string, st model.Status) string {
	return "/" + filterQuery(search, st)
}
