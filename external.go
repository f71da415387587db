package cairn

import (
	"context"
	"mime"
	"strings"

	"github.com/foomo/cairn/vo"
)

// Text fetches an external script or stylesheet and returns its content in
// the outcome data. Stylesheets get their own url() references inlined,
// resolved against the stylesheet url, those outcomes are returned as nested.
func (in *Inliner) Text(ctx context.Context, source, reference, baseURL string) (o vo.Outcome, nested vo.Outcomes) {
	nested = vo.Outcomes{}
	if strings.TrimSpace(reference) == "" {
		return in.record(ctx, vo.Unchanged(source, reference, vo.ReasonSkipped, nil)), nested
	}
	u := Resolve(reference, baseURL)
	if hasPrefixFold(u, "data:") || hasPrefixFold(u, "about:") || strings.HasPrefix(u, "#") {
		return in.record(ctx, vo.Unchanged(source, u, vo.ReasonSkipped, nil)), nested
	}
	if !IsValidURL(u) {
		return in.record(ctx, vo.Unchanged(source, u, vo.ReasonInvalidURL, nil)), nested
	}
	result, unchanged := in.fetch(ctx, source, u)
	if result == nil {
		return in.record(ctx, unchanged), nested
	}
	text := string(result.Body)
	if isCSS(result.ContentType()) {
		stylesheetURL := result.URL
		if stylesheetURL == "" {
			stylesheetURL = u
		}
		text, nested = in.CSS(ctx, text, stylesheetURL)
	}
	return in.record(ctx, vo.Inlined(source, u, text)), nested
}

func isCSS(contentType string) bool {
	mediaType, _, errParse := mime.ParseMediaType(contentType)
	return errParse == nil && mediaType == "text/css"
}
