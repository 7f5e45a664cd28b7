// ABOUTME: Converts status HTML to the plain text the tokenizer reads
// ABOUTME: Uses golang.org/x/net/html; <br> and paragraph ends become newlines

package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// HTMLToPlain strips markup from status content. Line breaks become "\n",
// paragraph boundaries become "\n" as well, and character references are
// decoded. The result is NFC-normalised.
func HTMLToPlain(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return norm.NFC.String(content)
	}

	nodes, err := html.ParseFragment(strings.NewReader(content), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return norm.NFC.String(content)
	}

	var b strings.Builder
	for i, n := range nodes {
		if i > 0 && isBlock(nodes[i-1]) {
			b.WriteByte('\n')
		}
		writePlain(n, &b)
	}
	return norm.NFC.String(b.String())
}

func writePlain(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "br":
			b.WriteByte('\n')
			return
		case "script", "style":
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writePlain(c, b)
		if c.NextSibling != nil && isBlock(c) {
			b.WriteByte('\n')
		}
	}
}

// isBlock reports whether n ends a paragraph-like block.
func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "div", "li", "blockquote", "pre", "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
