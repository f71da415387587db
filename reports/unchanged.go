package reports

import (
	"io"
	"sort"

	"github.com/foomo/cairn/vo"
)

// Unchanged lists every reference a capture could not inline, grouped by
// reason.
func Unchanged(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("unchanged references")
	for _, a := range archives {
		unchanged := a.Outcomes.Filter(vo.OutcomeUnchanged)
		if len(unchanged) == 0 {
			continue
		}
		byReason := map[vo.Reason][]vo.Outcome{}
		reasons := []string{}
		for _, o := range unchanged {
			if _, ok := byReason[o.Reason]; !ok {
				reasons = append(reasons, string(o.Reason))
			}
			byReason[o.Reason] = append(byReason[o.Reason], o)
		}
		sort.Strings(reasons)
		println(a.URL, " (", len(unchanged), "):")
		for _, reason := range reasons {
			println("	", reason)
			for i, o := range byReason[vo.Reason(reason)] {
				if i > 19 {
					println("		...")
					break
				}
				if o.Err != "" {
					println("		", o.Source, o.URL, o.Err)
				} else {
					println("		", o.Source, o.URL)
				}
			}
		}
	}
}
