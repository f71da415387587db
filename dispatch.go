package cairn

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

type nodeKind int

const (
	kindOther nodeKind = iota
	kindLink
	kindStyle
	kindScript
	kindEmbeddable
	kindMedia
)

// classify is the one place tag names are mapped to handlers.
func classify(n *html.Node) nodeKind {
	if n == nil || n.Type != html.ElementNode {
		return kindOther
	}
	switch tagName(n) {
	case "link":
		return kindLink
	case "style":
		return kindStyle
	case "script":
		return kindScript
	case "iframe", "embed", "object":
		return kindEmbeddable
	case "img", "picture", "figure", "video", "audio", "source":
		return kindMedia
	}
	return kindOther
}

type linkKind int

const (
	linkOther linkKind = iota
	linkIcon
	linkStylesheet
)

var iconRels = map[string]bool{
	"icon":                         true,
	"mask-icon":                    true,
	"apple-touch-icon":             true,
	"apple-touch-icon-precomposed": true,
}

// classifyLink looks at the rel tokens, "shortcut icon" is an icon. preload
// only counts as stylesheet when it preloads a style.
func classifyLink(s *goquery.Selection) linkKind {
	kind := linkOther
	for _, rel := range strings.Fields(strings.ToLower(attr(s, "rel"))) {
		switch {
		case iconRels[rel]:
			return linkIcon
		case rel == "stylesheet":
			kind = linkStylesheet
		case rel == "preload" && strings.EqualFold(attr(s, "as"), "style"):
			kind = linkStylesheet
		}
	}
	return kind
}

func embedAttr(n *html.Node) string {
	if tagName(n) == "object" {
		return "data"
	}
	return "src"
}

var selectorResources = cascadia.MustCompile("link,style,script,iframe,embed,object,img,picture,figure,video,audio,source")

// passInlineResources visits resource bearing nodes in document order, one
// at a time.
func passInlineResources(c *capture) {
	c.doc.FindMatcher(selectorResources).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		kind := classify(n)
		if kind == kindLink && classifyLink(s) == linkOther {
			return
		}
		if style := attr(s, "style"); style != "" {
			inlined, outcomes := c.inliner.CSS(c.ctx, style, c.baseURL)
			c.outcomes.Add(outcomes...)
			s.SetAttr("style", inlined)
		}
		switch kind {
		case kindStyle:
			c.inlineStyle(n)
		case kindLink:
			c.inlineLink(s)
		case kindScript:
			c.inlineScript(s)
		case kindEmbeddable:
			c.inlineAttr(s, "embed", embedAttr(n))
		case kindMedia:
			c.inlineMedia(s)
		}
	})
}

func (c *capture) inlineStyle(n *html.Node) {
	css := nodeText(n)
	if strings.TrimSpace(css) == "" {
		return
	}
	inlined, outcomes := c.inliner.CSS(c.ctx, css, c.baseURL)
	c.outcomes.Add(outcomes...)
	if inlined != css {
		setRawText(n, inlined)
	}
}

func (c *capture) inlineAttr(s *goquery.Selection, source, name string) {
	value := attr(s, name)
	if value == "" {
		return
	}
	o := c.inline(c.inliner.DataURI(c.ctx, source, Resolve(value, c.baseURL)))
	if o.IsInlined() {
		s.SetAttr(name, o.Data)
	}
}

func (c *capture) inlineLink(s *goquery.Selection) {
	switch classifyLink(s) {
	case linkIcon:
		c.inlineAttr(s, "icon", "href")
	case linkStylesheet:
		href := attr(s, "href")
		if href == "" {
			return
		}
		o, nested := c.inliner.Text(c.ctx, "stylesheet", href, c.baseURL)
		c.outcomes.Add(nested...)
		if !c.inline(o).IsInlined() {
			return
		}
		style := newElement("style", "type", "text/css")
		if media := attr(s, "media"); media != "" {
			style.Attr = append(style.Attr, html.Attribute{Key: "media", Val: media})
		}
		setRawText(style, o.Data)
		s.ReplaceWithNodes(style)
	}
}

func (c *capture) inlineScript(s *goquery.Selection) {
	src := attr(s, "src")
	if src == "" {
		return
	}
	o, nested := c.inliner.Text(c.ctx, "script", src, c.baseURL)
	c.outcomes.Add(nested...)
	if c.inline(o).IsInlined() {
		s.RemoveAttr("src")
		setRawText(s.Get(0), o.Data)
	}
}

func (c *capture) inlineMedia(s *goquery.Selection) {
	c.inlineAttr(s, "media", "src")
	c.inlineAttr(s, "media", "poster")
	srcset := attr(s, "srcset")
	if srcset == "" {
		return
	}
	s.SetAttr("srcset", mapSrcset(srcset, func(u string) string {
		o := c.inline(c.inliner.DataURI(c.ctx, "media", Resolve(u, c.baseURL)))
		if o.IsInlined() {
			return o.Data
		}
		return u
	}))
}
