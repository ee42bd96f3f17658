package web

import (
	"html/template"

	"clubsite/util"
	"gitlab.com/golang-commonmark/markdown"
)

var commonMarkParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// RenderMarkdown renders a description field as CommonMark.
// Raw HTML in the input is not passed through.
func RenderMarkdown(s string) template.HTML {
	return template.HTML(commonMarkParser.RenderToString([]byte(s)))
}

// Teaser renders a description, strips the markup and truncates it.
func Teaser(s string, maxRunes int) string {
	return util.Trunc(util.StripTags(string(RenderMarkdown(s))), maxRunes)
}
