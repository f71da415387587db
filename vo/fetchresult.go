package vo

import "net/http"

// FetchResult is what a fetcher hands back for one url. Header keys are
// canonicalized, lookups through Header.Get are case insensitive.
type FetchResult struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

func (r *FetchResult) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}

func (r *FetchResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}
