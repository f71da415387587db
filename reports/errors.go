package reports

import (
	"io"
	"sort"

	"github.com/foomo/cairn/vo"
)

// Errors lists failed captures by status code, 0 is a failure before any
// response.
func Errors(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("errors")
	errorBuckets := map[int]map[string]*vo.Archived{}
	codes := sort.IntSlice{}
	for _, a := range archives {
		if a.Error == "" {
			continue
		}
		_, mapOK := errorBuckets[a.Code]
		if !mapOK {
			codes = append(codes, a.Code)
			errorBuckets[a.Code] = map[string]*vo.Archived{}
		}
		errorBuckets[a.Code][a.URL] = a
	}
	sort.Sort(codes)
	for _, code := range codes {
		println(code, ":")
		urls := make([]string, 0, len(errorBuckets[code]))
		for url := range errorBuckets[code] {
			urls = append(urls, url)
		}
		sort.Strings(urls)
		for _, url := range urls {
			println("	", url, errorBuckets[code][url].Error)
		}
	}
}
