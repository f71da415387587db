package vo

type OutcomeKind string

const (
	OutcomeInlined   OutcomeKind = "inlined"
	OutcomeUnchanged OutcomeKind = "unchanged"
)

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonSkipped     Reason = "skipped"
	ReasonInvalidURL  Reason = "invalid-url"
	ReasonFetchFailed Reason = "fetch-failed"
	ReasonBadStatus   Reason = "bad-status"
	ReasonEmpty       Reason = "empty"
	ReasonCanceled    Reason = "canceled"
)

// Outcome of one inlining attempt. Data is only set for inlined outcomes.
type Outcome struct {
	Kind   OutcomeKind
	Source string
	URL    string
	Data   string
	Reason Reason
	Err    string
}

func Inlined(source, url, data string) Outcome {
	return Outcome{Kind: OutcomeInlined, Source: source, URL: url, Data: data}
}

func Unchanged(source, url string, reason Reason, err error) Outcome {
	o := Outcome{Kind: OutcomeUnchanged, Source: source, URL: url, Reason: reason}
	if err != nil {
		o.Err = err.Error()
	}
	return o
}

func (o Outcome) IsInlined() bool {
	return o.Kind == OutcomeInlined
}

type Outcomes []Outcome

func (l *Outcomes) Add(o ...Outcome) {
	*l = append(*l, o...)
}

func (l Outcomes) Count(kind OutcomeKind) (n int) {
	for _, o := range l {
		if o.Kind == kind {
			n++
		}
	}
	return
}

// Filter returns the outcomes of the given kind in their original order.
func (l Outcomes) Filter(kind OutcomeKind) Outcomes {
	filtered := Outcomes{}
	for _, o := range l {
		if o.Kind == kind {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Fetches counts how often each url was requested. Skipped references never
// reached a fetcher and are not counted.
func (l Outcomes) Fetches() map[string]int {
	fetches := map[string]int{}
	for _, o := range l {
		if o.Kind == OutcomeUnchanged && (o.Reason == ReasonSkipped || o.Reason == ReasonInvalidURL) {
			continue
		}
		fetches[o.URL]++
	}
	return fetches
}
