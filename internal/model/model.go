package model

import (
	"errors"
	"strings"
)

// WeeksPerYear is the number of timeline columns per project row.
const WeeksPerYear = 52

type Status string

const (
	StatusAngebot  Status = "Angebot"
	StatusAnfrage  Status = "Anfrage"
	StatusAuftrag  Status = "Auftrag"
	StatusErledigt Status = "Erledigt"
	StatusRechnung Status = "Rechnung"
)

// Statuses returns all statuses in display order.
func Statuses() []Status {
	return []Status{StatusAngebot, StatusAnfrage, StatusAuftrag, StatusErledigt, StatusRechnung}
}

var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus matches s case-insensitively against the fixed status set.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// ParseStatusFilter is like ParseStatus but maps "", "all" and "alle" to the
// empty status, which means "show all".
func ParseStatusFilter(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "alle":
		return "", nil
	}
	return ParseStatus(s)
}

// Tone is the colour family used for a status badge and for filled timeline cells.
type Tone string

const (
	ToneNone   Tone = "none"
	ToneGreen  Tone = "green"
	ToneAmber  Tone = "amber"
	ToneBlue   Tone = "blue"
	ToneRed    Tone = "red"
	TonePurple Tone = "purple"
	ToneGray   Tone = "gray"
)

// CellTone returns the fill colour of a non-empty timeline cell for a project in status s.
func (s Status) CellTone() Tone {
	switch s {
	case StatusAngebot, StatusAnfrage:
		return ToneGreen
	case StatusAuftrag:
		return ToneBlue
	case StatusErledigt:
		return ToneRed
	case StatusRechnung:
		return TonePurple
	default:
		return ToneGray
	}
}

// BadgeTone returns the colour of the status badge.
func (s Status) BadgeTone() Tone {
	switch s {
	case StatusAngebot, StatusAnfrage:
		return ToneAmber
	case StatusAuftrag:
		return ToneBlue
	case StatusErledigt:
		return ToneRed
	case StatusRechnung:
		return TonePurple
	default:
		return ToneGray
	}
}

// Category tags a timeline entry. It is styling metadata only.
type Category string

const (
	CategoryPlanning  Category = "planning"
	CategoryExecution Category = "execution"
	CategoryMilestone Category = "milestone"
	CategoryWarning   Category = "warning"
	CategoryInfo      Category = "info"
)

// DefaultCategory is assigned to entries created by editing an empty cell.
const DefaultCategory = CategoryExecution

type TimelineEntry struct {
	Week     int      `json:"week"`
	Code     string   `json:"code"`
	Category Category `json:"category"`
}

type Project struct {
	ID         string          `json:"id"`
	KZL        string          `json:"kzl"`
	Status     Status          `json:"status"`
	StatusInfo string          `json:"statusInfo,omitempty"`
	Location   string          `json:"location"`
	Name       string          `json:"name"`
	Trade      string          `json:"trade"`
	Client     string          `json:"client"`
	Submission string          `json:"submission,omitempty"`
	OrderNo    string          `json:"orderNo,omitempty"`
	Total      float64         `json:"total"`
	Lead       string          `json:"lead,omitempty"`
	Staff      string          `json:"staff,omitempty"`
	Timeline   []TimelineEntry `json:"timeline"`
}

// Entry returns the timeline entry at week, if any.
func (p Project) Entry(week int) (TimelineEntry, bool) {
	for _, e := range p.Timeline {
		if e.Week == week {
			return e, true
		}
	}
	return TimelineEntry{}, false
}

// Code returns the code at week or "".
func (p Project) Code(week int) string {
	e, _ := p.Entry(week)
	return e.Code
}

// SiteLead is the BL initial (first rune of Staff).
func (p Project) SiteLead() string {
	r := []rune(p.Staff)
	if len(r) == 0 {
		return ""
	}
	return string(r[:1])
}

// TeamMember is the MA initials (everything after the first rune of Staff).
func (p Project) TeamMember() string {
	r := []rune(p.Staff)
	if len(r) <= 1 {
		return ""
	}
	return string(r[1:])
}

// ValidWeek reports whether w addresses a timeline column.
func ValidWeek(w int) bool {
	return w >= 1 && w <= WeeksPerYear
}

// LegendCode documents a common timeline code.
type LegendCode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func LegendCodes() []LegendCode {
	return []LegendCode{
		{Code: "ANG", Label: "Angebot"},
		{Code: "FM", Label: "Fachmontage"},
		{Code: "IBN", Label: "Inbetriebnahme"},
		{Code: "ABN", Label: "Abnahme"},
		{Code: "x", Label: "In Bearbeitung"},
	}
}

type Event struct {
	ID       string `json:"id"`
	TS       string `json:"ts"`
	Type     string `json:"type"`
	EntityID string `json:"entityId"`
	Payload  any    `json:"payload"`
}
