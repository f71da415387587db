package vo

import "time"

// Archived is the result of one capture.
type Archived struct {
	URL         string
	Code        int
	Status      string
	ContentType string
	Webpage     string
	Structure   Structure
	Outcomes    Outcomes
	Duration    time.Duration
	Time        time.Time
	Error       string
}
