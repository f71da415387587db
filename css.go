package cairn

import (
	"context"
	"regexp"

	"github.com/foomo/cairn/vo"
)

// cssURLPattern matches url(...) with double quoted, single quoted and bare
// references. css is scanned as text, a broken stylesheet still gets its
// references replaced.
var cssURLPattern = regexp.MustCompile(`(?i)url\(\s*(?:"([^"]*)"|'([^']*)'|([^'"\s)][^)]*?))\s*\)`)

func cssReference(submatch []string) string {
	for _, reference := range submatch[1:] {
		if reference != "" {
			return reference
		}
	}
	return ""
}

// CSS inlines every url(...) of a css block or style attribute. Each distinct
// reference is fetched once per call, all of its occurrences are replaced
// with the same data url. References that could not be inlined stay as they
// are.
func (in *Inliner) CSS(ctx context.Context, css, baseURL string) (string, vo.Outcomes) {
	outcomes := vo.Outcomes{}
	if css == "" {
		return css, outcomes
	}
	inlined := map[string]string{}
	seen := map[string]bool{}
	for _, submatch := range cssURLPattern.FindAllStringSubmatch(css, -1) {
		reference := cssReference(submatch)
		if reference == "" || seen[reference] || hasPrefixFold(reference, "data:") {
			continue
		}
		seen[reference] = true
		o := in.DataURI(ctx, "css", Resolve(reference, baseURL))
		outcomes.Add(o)
		if o.IsInlined() && o.Data != "" {
			inlined[reference] = o.Data
		}
	}
	if len(inlined) == 0 {
		return css, outcomes
	}
	css = cssURLPattern.ReplaceAllStringFunc(css, func(match string) string {
		data, ok := inlined[cssReference(cssURLPattern.FindStringSubmatch(match))]
		if !ok {
			return match
		}
		// keep the spelling of "url("
		return match[:4] + data + ")"
	})
	return css, outcomes
}
