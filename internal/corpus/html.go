package corpus

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractHTML returns the visible text of an HTML document. Script, style,
// and noscript subtrees are dropped entirely; the remaining text nodes join
// with single spaces.
func ExtractHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return b.String(), nil
}
