package cairn

import (
	"net/url"
	"strings"
)

// Resolve turns reference into an absolute url relative to baseURL and strips
// utm tracking parameters.
//
// data: urls and fragments are returned as they are. Resolution only happens
// against http(s) bases, any other base leaves reference untouched. A
// reference that can not be parsed falls back to the base url itself.
func Resolve(reference, baseURL string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" || hasPrefixFold(reference, "data:") || strings.HasPrefix(reference, "#") {
		return reference
	}
	if !isHTTPURL(baseURL) {
		return reference
	}
	base, errParseBase := url.Parse(strings.TrimSpace(baseURL))
	if errParseBase != nil {
		return reference
	}
	ref, errParseRef := url.Parse(reference)
	if errParseRef != nil {
		return stripTracking(base)
	}
	return stripTracking(base.ResolveReference(ref))
}

// IsValidURL tells if rawURL is a well formed absolute url with a host.
func IsValidURL(rawURL string) bool {
	if len(rawURL) < 3 {
		return false
	}
	u, errParse := url.Parse(rawURL)
	if errParse != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func isHTTPURL(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	return hasPrefixFold(rawURL, "http://") || hasPrefixFold(rawURL, "https://")
}

func isTrackingParameter(name string) bool {
	if unescaped, errUnescape := url.QueryUnescape(name); errUnescape == nil {
		name = unescaped
	}
	name = strings.ToLower(name)
	return strings.HasPrefix(name, "utm_") || strings.HasPrefix(name, "utm-")
}

// stripTracking drops utm_* and utm-* query parameters. The remaining
// parameters keep their order and encoding.
func stripTracking(u *url.URL) string {
	if u.RawQuery == "" {
		return u.String()
	}
	kept := []string{}
	for _, pair := range strings.Split(u.RawQuery, "&") {
		name := pair
		if i := strings.Index(pair, "="); i > -1 {
			name = pair[:i]
		}
		if isTrackingParameter(name) {
			continue
		}
		kept = append(kept, pair)
	}
	stripped := *u
	stripped.RawQuery = strings.Join(kept, "&")
	if stripped.RawQuery == "" {
		stripped.ForceQuery = false
	}
	return stripped.String()
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
