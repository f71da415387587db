package reports

import (
	"io"
	"sort"
	"time"

	"github.com/foomo/cairn/vo"
)

type score struct {
	URL       string
	Code      int
	Duration  time.Duration
	Unchanged int
}

type scores []score

func (s scores) Len() int           { return len(s) }
func (s scores) Less(i, j int) bool { return s[i].Duration > s[j].Duration }
func (s scores) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Highscore lists captures, slowest first.
func Highscore(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("high score")
	scores := make(scores, len(archives))
	for i, a := range archives {
		scores[i] = score{
			URL:       a.URL,
			Code:      a.Code,
			Duration:  a.Duration,
			Unchanged: a.Outcomes.Count(vo.OutcomeUnchanged),
		}
	}
	sort.Stable(scores)
	for i, s := range scores {
		println(i, s.Code, s.URL, s.Duration, "unchanged:", s.Unchanged)
	}
}
