package cairn

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const noscriptMarker = "data-cairn-noscript"

var (
	selectorScripts     = cascadia.MustCompile("script")
	selectorStyled      = cascadia.MustCompile("[style]")
	selectorStyles      = cascadia.MustCompile("style")
	selectorEmbeds      = cascadia.MustCompile("embed,object,iframe")
	selectorMedias      = cascadia.MustCompile("img,picture,figure,video,audio,source")
	selectorLazyImages  = cascadia.MustCompile("img,picture,figure")
	selectorMarkedDivs  = cascadia.MustCompile(`div[` + noscriptMarker + `="true"]`)
	selectorWithURLs    = cascadia.MustCompile("a,link,embed,script,iframe,object,img,picture,figure,video,audio,source")
	selectorIntegrities = cascadia.MustCompile("link[integrity]")
)

var (
	lazyImageSrc    = regexp.MustCompile(`(?i)^\s*\S+(jpg|jpeg|png|webp|gif)\S*\s*$`)
	lazyImageSrcset = regexp.MustCompile(`(?i)(jpg|jpeg|png|webp|gif)\s+\d`)
)

func contentSecurityPolicies(c *capture) []string {
	policies := []string{"default-src 'unsafe-inline' data:;", "connect-src 'none';"}
	if c.options.DisableJS {
		policies = append(policies, "script-src 'none';")
	}
	if c.options.DisableCSS {
		policies = append(policies, "style-src 'none';")
	}
	if c.options.DisableEmbeds {
		policies = append(policies, "frame-src 'none'; child-src 'none';")
	}
	if c.options.DisableMedias {
		policies = append(policies, "image-src 'none'; media-src 'none';")
	}
	return policies
}

func passCSP(c *capture) {
	c.doc.Find("meta[http-equiv]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.EqualFold(attr(s, "http-equiv"), "Content-Security-Policy")
	}).Remove()
	h := head(c.doc)
	for _, policy := range contentSecurityPolicies(c) {
		h.PrependNodes(newElement("meta", "http-equiv", "Content-Security-Policy", "content", policy))
	}
}

func passConfiguration(c *capture) {
	if c.options.DisableJS {
		c.doc.FindMatcher(selectorScripts).Remove()
		c.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			if strings.Contains(strings.ToLower(attr(s, "href")), "javascript:") {
				s.SetAttr("href", "#")
			}
		})
		// without scripts the noscript content is the only content left
		c.doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
			rename(s.Get(0), "div")
		})
	}
	if c.options.DisableCSS {
		c.doc.FindMatcher(selectorStyles).Remove()
		c.doc.FindMatcher(selectorStyled).RemoveAttr("style")
		c.doc.Find("link[rel]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classifyLink(s) == linkStylesheet
		}).Remove()
	}
	if c.options.DisableEmbeds {
		c.doc.FindMatcher(selectorEmbeds).Remove()
	}
	if c.options.DisableMedias {
		c.doc.FindMatcher(selectorMedias).Remove()
	}
}

func rename(n *html.Node, tag string) {
	n.Data = tag
	n.DataAtom = atom.Lookup([]byte(tag))
}

func passNoscriptMark(c *capture) {
	c.doc.Find("noscript").Each(func(_ int, s *goquery.Selection) {
		rename(s.Get(0), "div")
		s.SetAttr(noscriptMarker, "true")
	})
}

// passNoscriptRestore turns marked divs back into noscript. The renderer
// writes text children of noscript raw, they were decoded by the parser and
// are escaped again here.
func passNoscriptRestore(c *capture) {
	c.doc.FindMatcher(selectorMarkedDivs).Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				child.Data = html.EscapeString(child.Data)
			}
		}
		rename(n, "noscript")
		s.RemoveAttr(noscriptMarker)
	})
}

func passComments(c *capture) {
	for _, n := range c.doc.Nodes {
		removeComments(n)
	}
}

func removeComments(n *html.Node) {
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			n.RemoveChild(child)
		} else {
			removeComments(child)
		}
		child = next
	}
}

// isPlaceholder reports tiny base64 images some sites put into src until a
// script loads the real one. svg is excluded, a meaningful svg can be tiny.
func isPlaceholder(src string) bool {
	src = strings.ToLower(strings.TrimSpace(src))
	if !strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "data:image/svg+xml") {
		return false
	}
	header, _, found := strings.Cut(src, ",")
	return found && strings.Contains(header, ";")
}

func isLazyCandidate(value, copyTo string) bool {
	if copyTo == "srcset" {
		entries := parseSrcset(value)
		if len(entries) == 0 {
			return false
		}
		value = entries[0].url
	}
	value = strings.TrimSpace(value)
	return strings.HasPrefix(value, "/") || IsValidURL(value)
}

func passLazyImages(c *capture) {
	c.doc.FindMatcher(selectorLazyImages).Each(func(_ int, s *goquery.Selection) {
		src, srcset := attr(s, "src"), attr(s, "srcset")
		if src != "" && isPlaceholder(src) {
			return
		}
		if (src != "" || srcset != "") && strings.EqualFold(attr(s, "loading"), "lazy") {
			return
		}
		n := s.Get(0)
		tag := tagName(n)
		attrs := append([]html.Attribute{}, n.Attr...)
		for _, a := range attrs {
			name := strings.ToLower(a.Key)
			if name == "src" || name == "srcset" {
				continue
			}
			copyTo := ""
			switch {
			case lazyImageSrcset.MatchString(a.Val):
				copyTo = "srcset"
			case lazyImageSrc.MatchString(a.Val):
				copyTo = "src"
			}
			if copyTo == "" || !isLazyCandidate(a.Val, copyTo) {
				continue
			}
			switch tag {
			case "img", "picture":
				s.SetAttr(copyTo, strings.TrimSpace(a.Val))
			case "figure":
				if s.ChildrenFiltered("img,picture").Length() > 0 {
					continue
				}
				s.AppendNodes(newElement("img", copyTo, strings.TrimSpace(a.Val)))
			}
			s.RemoveAttr(a.Key)
		}
	})
}

func passAbsoluteURLs(c *capture) {
	resolve := func(s *goquery.Selection, name string) {
		if value, ok := s.Attr(name); ok {
			s.SetAttr(name, Resolve(value, c.baseURL))
		}
	}
	c.doc.FindMatcher(selectorWithURLs).Each(func(_ int, s *goquery.Selection) {
		switch kind := classify(s.Get(0)); {
		case tagName(s.Get(0)) == "a", kind == kindLink:
			resolve(s, "href")
		case kind == kindScript:
			resolve(s, "src")
		case kind == kindEmbeddable:
			resolve(s, embedAttr(s.Get(0)))
		case kind == kindMedia:
			resolve(s, "src")
			resolve(s, "poster")
			if srcset, ok := s.Attr("srcset"); ok {
				s.SetAttr("srcset", mapSrcset(srcset, func(u string) string {
					return Resolve(u, c.baseURL)
				}))
			}
		}
	})
}

func passIntegrity(c *capture) {
	c.doc.FindMatcher(selectorIntegrities).RemoveAttr("integrity")
}

// passOpenGraph adds a plain companion for every og:X meta and fills an empty
// title from og:title.
func passOpenGraph(c *capture) {
	h := head(c.doc)
	title := strings.TrimSpace(h.ChildrenFiltered("title").First().Text())
	hasCompanion := func(og *goquery.Selection, name string) bool {
		if _, ok := og.Attr(name); ok {
			return true
		}
		return h.ChildrenFiltered("meta").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.EqualFold(attr(s, "property"), name) || strings.EqualFold(attr(s, "name"), name)
		}).Length() > 0
	}
	h.ChildrenFiltered("meta").Each(func(_ int, s *goquery.Selection) {
		property := attr(s, "property")
		if !hasPrefixFold(property, "og:") {
			return
		}
		name := property[len("og:"):]
		if name == "" || hasCompanion(s, name) {
			return
		}
		content, _ := s.Attr("content")
		h.AppendNodes(newElement("meta", "property", name, "content", content))
		if title == "" && strings.EqualFold(name, "title") {
			h.ChildrenFiltered("title").Remove()
			titleNode := newElement("title")
			titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: content})
			h.PrependNodes(titleNode)
			title = strings.TrimSpace(content)
		}
	})
}

func passCharset(c *capture) {
	c.doc.Find("meta[charset]").Remove()
	head(c.doc).PrependNodes(newElement("meta", "charset", "utf-8"))
}

func passSource(c *capture) {
	head(c.doc).AppendNodes(newElement("meta", "property", "source:url", "content", c.baseURL))
}
