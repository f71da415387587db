package reports

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/foomo/cairn/vo"
)

var ErrUnknownReport = errors.New("unknown report")

type Reporter func(w io.Writer, archives []*vo.Archived)

func reporters() map[string]Reporter {
	return map[string]Reporter{
		"summary":    Summary,
		"unchanged":  Unchanged,
		"duplicates": Duplicates,
		"errors":     Errors,
		"highscore":  Highscore,
		"results":    Results,
	}
}

// Names lists the available reports.
func Names() []string {
	names := []string{}
	for name := range reporters() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(names []string) ([]Reporter, error) {
	all := reporters()
	selected := make([]Reporter, len(names))
	for i, name := range names {
		r, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
		}
		selected[i] = r
	}
	return selected, nil
}

// Validate checks that all names are known reports.
func Validate(names []string) error {
	_, err := lookup(names)
	return err
}

// Report writes the named reports in the given order.
func Report(w io.Writer, names []string, archives []*vo.Archived) error {
	selected, errLookup := lookup(names)
	if errLookup != nil {
		return errLookup
	}
	_, println, _ := printers(w)
	for i, r := range selected {
		println("REPORT", names[i])
		println("=============================================================================")
		r(w, archives)
		println()
	}
	return nil
}

func printers(w io.Writer) (printh func(header ...interface{}), println func(a ...interface{}), printsep func()) {
	printsep = func() {
		fmt.Fprintln(w, "-----------------------------------------------------------------------------")
	}
	println = func(a ...interface{}) { fmt.Fprintln(w, a...) }
	printh = func(header ...interface{}) {
		println()
		println(header...)
		printsep()
	}
	return
}

type duplications map[string][]string

func (d duplications) add(value, url string) {
	d[value] = append(d[value], url)
}

func (d duplications) printlnDuplications(w io.Writer) {
	_, println, _ := printers(w)
	values := make([]string, 0, len(d))
	for value := range d {
		values = append(values, value)
	}
	sort.Strings(values)
	for _, value := range values {
		urls := d[value]
		sort.Strings(urls)
		if len(urls) > 1 {
			println(value, "(", len(urls), ")")
			for _, url := range urls {
				println("	", url)
			}
		}
	}
}

func Summary(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("captures", len(archives))
	for _, a := range archives {
		bucket, _ := vo.GetBucketList().Find(a.Duration)
		println(a.Code, a.URL, strconv.Quote(a.Structure.Title), a.Duration, bucket.Name)
		println("	inlined:", a.Outcomes.Count(vo.OutcomeInlined), "unchanged:", a.Outcomes.Count(vo.OutcomeUnchanged))
		if a.Error != "" {
			println("	error:", a.Error)
		}
	}

	printh("status codes")
	statusMap := map[int]int{}
	for _, a := range archives {
		statusMap[a.Code]++
	}
	codes := sort.IntSlice{}
	for code := range statusMap {
		codes = append(codes, code)
	}
	sort.Sort(codes)
	for _, code := range codes {
		println(code, statusMap[code])
	}

	printh("performance buckets")
	bucketListStatus(w, archives)
}

func bucketListStatus(w io.Writer, archives []*vo.Archived) {
	_, println, _ := printers(w)
	if len(archives) == 0 {
		return
	}
	buckets := vo.GetBucketList()
	counts := make([]int, len(buckets))
	for _, a := range archives {
		for i, bucket := range buckets {
			if found, ok := buckets.Find(a.Duration); ok && found == bucket {
				counts[i]++
			}
		}
	}
	for i, bucket := range buckets {
		println(
			counts[i],
			"	",
			math.Round(float64(counts[i])/float64(len(archives))*100),
			"%	(", bucket.From, "=>", bucket.To, ")",
			bucket.Name,
		)
	}
}
