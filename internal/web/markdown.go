package web

import (
	"bytes"
	"html/template"
	"sync"

	"planboard/internal/docs"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Help topics are tables and short lists; raw HTML in them is escaped.
var helpMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Linkify,
		emoji.Emoji,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Topics are embedded at build time, so each one is rendered once.
var helpPages sync.Map // topic -> template.HTML

// helpHTML returns the rendered help topic, or false for an unknown topic.
func helpHTML(topic string) (template.HTML, bool) {
	if v, ok := helpPages.Load(topic); ok {
		return v.(template.HTML), true
	}
	src, ok := docs.Get(topic)
	if !ok {
		return "", false
	}
	var b bytes.Buffer
	out := template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	if err := helpMarkdown.Convert([]byte(src), &b); err == nil {
		out = template.HTML(b.String())
	}
	helpPages.Store(topic, out)
	return out, true
}
