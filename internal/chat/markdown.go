package chat

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// replies are written with bullet lists and short paragraphs; raw HTML in
// them is dropped by goldmark's default renderer.
var md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

func RenderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
