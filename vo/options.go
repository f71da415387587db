package vo

import "time"

// Options is the configuration snapshot of one capture. It is read only while
// a capture runs.
type Options struct {
	DisableJS     bool
	DisableCSS    bool
	DisableEmbeds bool
	DisableMedias bool
	UserAgent     string
	Timeout       time.Duration
	Proxy         string
}
