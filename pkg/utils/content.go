package utils

import (
	"bytes"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	ugcPolicy = bluemonday.UGCPolicy()
	markdown  = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// SanitizeHTML strips scripts, event handlers and other unsafe markup.
func SanitizeHTML(input string) string {
	return ugcPolicy.Sanitize(input)
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		slog.Info(err.Error())
		return SanitizeHTML(source)
	}
	return ugcPolicy.Sanitize(buf.String())
}
