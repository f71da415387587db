package main

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const fileNameTimeLayout = "2006-01-02-150405"

var htmlSuffix = regexp.MustCompile(`\.(htm|html)$`)

// fileName builds <time>-<host>-<path>.html for an archived url.
func fileName(rawURL string, now time.Time) string {
	stamp := now.UTC().Format(fileNameTimeLayout)
	u, errParse := url.Parse(rawURL)
	if errParse != nil || u.Hostname() == "" {
		return stamp + ".html"
	}
	host := strings.ReplaceAll(u.Hostname(), ".", "-")
	host = strings.Trim(strings.Replace(host, "www-", "", 1), "-")
	path := strings.Trim(strings.ReplaceAll(u.Path, "/", "-"), "-")
	full := strings.Trim(stamp+"-"+host+"-"+path, "-")
	return htmlSuffix.ReplaceAllString(full, "") + ".html"
}
