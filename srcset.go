package cairn

import (
	"regexp"
	"strings"
)

// srcsetCandidate splits a srcset into url, optional descriptor and the
// separator.
var srcsetCandidate = regexp.MustCompile(`(\S+)(\s+[\d.]+[xwh])?(\s*(?:,|$))`)

type srcsetEntry struct {
	url        string
	descriptor string
}

func parseSrcset(srcset string) []srcsetEntry {
	entries := []srcsetEntry{}
	for _, parts := range srcsetCandidate.FindAllStringSubmatch(srcset, -1) {
		u := strings.TrimSuffix(parts[1], ",")
		if u == "" {
			continue
		}
		entries = append(entries, srcsetEntry{url: u, descriptor: strings.TrimSpace(parts[2])})
	}
	return entries
}

func (e srcsetEntry) String() string {
	if e.descriptor == "" {
		return e.url
	}
	return e.url + " " + e.descriptor
}

// mapSrcset applies f to every url of a srcset and joins the candidates
// again, descriptors are kept.
func mapSrcset(srcset string, f func(string) string) string {
	entries := parseSrcset(srcset)
	candidates := make([]string, 0, len(entries))
	for _, e := range entries {
		e.url = f(e.url)
		candidates = append(candidates, e.String())
	}
	return strings.Join(candidates, ", ")
}
