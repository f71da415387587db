package cairn

import (
	"context"
	"net/url"

	"github.com/temoto/robotstxt"
)

// allowedByRobots checks the robots.txt of the target host. A robots.txt that
// can not be fetched or parsed allows everything.
func allowedByRobots(ctx context.Context, fetcher Fetcher, targetURL, agent string) bool {
	u, errParse := url.Parse(targetURL)
	if errParse != nil || u.Host == "" {
		return true
	}
	robotsURL := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	result, errFetch := fetcher.Fetch(ctx, robotsURL.String())
	if errFetch != nil || result == nil {
		return true
	}
	data, errFromStatus := robotstxt.FromStatusAndBytes(result.Status, result.Body)
	if errFromStatus != nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, agent)
}
