package reports

import (
	"io"

	"github.com/foomo/cairn/vo"
	"gopkg.in/yaml.v3"
)

type result struct {
	URL         string
	Code        int
	ContentType string
	Title       string
	Duration    string
	Error       string `yaml:",omitempty"`
	Inlined     int
	Unchanged   []string `yaml:",omitempty"`
}

// Results dumps every capture as yaml, without the archived page itself.
func Results(w io.Writer, archives []*vo.Archived) {
	printh, println, _ := printers(w)
	printh("results", len(archives))
	for _, a := range archives {
		res := result{
			URL:         a.URL,
			Code:        a.Code,
			ContentType: a.ContentType,
			Title:       a.Structure.Title,
			Duration:    a.Duration.String(),
			Error:       a.Error,
			Inlined:     a.Outcomes.Count(vo.OutcomeInlined),
		}
		for _, o := range a.Outcomes.Filter(vo.OutcomeUnchanged) {
			res.Unchanged = append(res.Unchanged, string(o.Reason)+" "+o.URL)
		}
		yamlBytes, errYaml := yaml.Marshal(res)
		if errYaml != nil {
			println("could not print", a.URL, errYaml)
		} else {
			println(string(yamlBytes))
		}
	}
}
