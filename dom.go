package cairn

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// setRawText replaces the children of a script or style element with one text
// node. The renderer writes text of these elements unescaped.
func setRawText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: escapeRawText(n.Data, text)})
}

func nodeText(n *html.Node) string {
	sb := strings.Builder{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

var rawTextEnd = map[string]*regexp.Regexp{
	"script": regexp.MustCompile(`(?i)</(script)`),
	"style":  regexp.MustCompile(`(?i)</(style)`),
}

// escapeRawText keeps inlined text from closing its own element early.
func escapeRawText(tag, text string) string {
	if rx, ok := rawTextEnd[tag]; ok {
		return rx.ReplaceAllString(text, `<\/$1`)
	}
	return text
}

func head(doc *goquery.Document) *goquery.Selection {
	return doc.Find("head").First()
}

func tagName(n *html.Node) string {
	return strings.ToLower(n.Data)
}

// attr is a trimmed attribute lookup, "" for a missing attribute.
func attr(s *goquery.Selection, name string) string {
	value, _ := s.Attr(name)
	return strings.TrimSpace(value)
}
