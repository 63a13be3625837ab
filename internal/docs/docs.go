// Package docs serves the built-in help topics shown by `planboard docs`, the TUI help
// overlay and the web legend.
package docs

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"planboard/internal/model"
)

//go:embed content/*.md
var contentFS embed.FS

// Topics lists the available topics, sorted.
func Topics() []string {
	entries, err := fs.Glob(contentFS, "content/*.md")
	if err != nil {
		return []string{"legend"}
	}
	topics := []string{"legend"}
	for _, p := range entries {
		base := path.Base(p)
		if t := strings.TrimSuffix(base, path.Ext(base)); t != "" {
			topics = append(topics, t)
		}
	}
	sort.Strings(topics)
	return topics
}

// Get returns the markdown for topic (case-insensitive).
func Get(topic string) (string, bool) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return "", false
	}
	if topic == "legend" {
		return Legend(), true
	}
	b, err := contentFS.ReadFile(path.Join("content", topic+".md"))
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Legend documents the timeline codes and status colours.
func Legend() string {
	var b strings.Builder
	b.WriteString("# Legende\n\n")
	b.WriteString("| Kürzel | Bedeutung |\n|---|---|\n")
	for _, c := range model.LegendCodes() {
		fmt.Fprintf(&b, "| `%s` | %s |\n", c.Code, c.Label)
	}
	b.WriteString("\n## Status\n\n")
	b.WriteString("| Status | Badge | Zellen |\n|---|---|---|\n")
	for _, s := range model.Statuses() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s, s.BadgeTone(), s.CellTone())
	}
	return b.String()
}
