package cairn

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/cairn/vo"
)

// ExtractStructure reads title, description and canonical url of an archived
// page.
func ExtractStructure(webpage string) (s vo.Structure, err error) {
	doc, errDoc := goquery.NewDocumentFromReader(strings.NewReader(webpage))
	if errDoc != nil {
		return s, errDoc
	}
	return extractStructure(doc), nil
}

func extractStructure(doc *goquery.Document) (s vo.Structure) {
	description, _ := doc.Find("meta[name=description]").First().Attr("content")
	s = vo.Structure{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: description,
	}
	if s.Description == "" {
		s.Description, _ = doc.Find(`meta[property="og:description"]`).First().Attr("content")
	}
	doc.Find("link[rel]").Each(func(i int, sel *goquery.Selection) {
		attrHref, attrHrefOK := sel.Attr("href")
		if attrHrefOK && strings.EqualFold(attr(sel, "rel"), "canonical") {
			s.Canonical = attrHref
		}
	})
	return
}
