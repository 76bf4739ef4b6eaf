// Package render turns the HTML fragments the service returns into text the
// terminal can show: plain one-line previews for lists and markdown for the
// detail and reader views.
package render

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// PlainText strips every tag from fragment, decodes entities and collapses
// runs of whitespace into single spaces.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	text := html.UnescapeString(strict.Sanitize(fragment))
	return strings.Join(strings.FieldsFunc(text, unicode.IsSpace), " ")
}

// Preview is PlainText cut to at most max runes, with an ellipsis when cut.
func Preview(fragment string, max int) string {
	text := PlainText(fragment)
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}

// Markdown converts an HTML fragment to tidy markdown.
func Markdown(fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return tidy(out), nil
}

// tidy trims every line, folds blank runs to one and drops tracking junk that
// readability sometimes leaves behind.
func tidy(markdown string) string {
	lines := strings.Split(markdown, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" {
			if len(cleaned) > 0 && cleaned[len(cleaned)-1] != "" {
				cleaned = append(cleaned, "")
			}
			continue
		}

		if strings.Contains(line, "google-analytics") ||
			strings.Contains(line, "googletagmanager") ||
			strings.Contains(line, "hm.baidu.com") {
			continue
		}

		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
