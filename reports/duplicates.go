package reports

import (
	"io"
	"sort"

	"github.com/foomo/cairn/vo"
)

// Duplicates lists urls fetched more than once, inside one capture and across
// captures. Every inlining attempt fetches, only repeats inside one css block
// are merged.
func Duplicates(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("duplicate fetches within a capture")
	across := duplications{}
	for _, a := range archives {
		fetches := a.Outcomes.Fetches()
		urls := make([]string, 0, len(fetches))
		for url := range fetches {
			urls = append(urls, url)
			across.add(url, a.URL)
		}
		sort.Strings(urls)
		for _, url := range urls {
			if fetches[url] > 1 {
				println(a.URL, "	", fetches[url], "x", url)
			}
		}
	}
	printh("urls fetched by several captures")
	across.printlnDuplications(w)
}
