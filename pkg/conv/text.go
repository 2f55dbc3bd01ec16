package conv

import (
	"html"
	"io"
	"strings"

	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

const maxTextLen = 512

var strictPolicy = bluemonday.StrictPolicy()

// PlainText strips markup and control characters from text supplied by a
// remote service so it is safe to print on the operator's terminal.
func PlainText(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxTextLen {
		s = string(r[:maxTextLen-3]) + "..."
	}
	return s
}

// HTMLToText renders an HTML body (an error page, typically) as a single
// line of plain text.
func HTMLToText(r io.Reader) (string, error) {
	text, err := html2text.FromReader(r, html2text.Options{
		OmitLinks: true,
	})
	if err != nil {
		return "", err
	}
	return PlainText(text), nil
}
