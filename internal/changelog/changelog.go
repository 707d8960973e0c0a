// Package changelog renders service-provided changelog payloads for
// terminal display.
package changelog

import (
	"strings"

	"golang.org/x/net/html"
)

// AsText flattens a changelog payload into plain text according to the
// source's declared changelog format. Unknown formats pass through
// unchanged; "html" payloads have their markup stripped.
func AsText(format, payload string) string {
	if format != "html" {
		return strings.TrimSpace(payload)
	}
	return strings.TrimSpace(stripHTML(payload))
}

var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true,
	"br": true, "tr": true, "blockquote": true, "pre": true,
}

func stripHTML(payload string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(payload))
	var b strings.Builder

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return collapseLines(b.String())
		case html.TextToken:
			b.WriteString(string(tokenizer.Text()))
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if blockTags[string(name)] {
				b.WriteByte('\n')
			}
		}
	}
}

// collapseLines drops empty lines left behind by adjacent block tags.
func collapseLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
