package cairn

import (
	"context"
	"encoding/base64"
	"log/slog"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/foomo/cairn/vo"
)

// Inliner turns references into data urls or inline text. Every attempt ends
// in an outcome, failures leave the reference as it was.
type Inliner struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *Metrics
}

func NewInliner(fetcher Fetcher, opts ...Option) *Inliner {
	s := newSettings(opts)
	return &Inliner{
		fetcher: fetcher,
		logger:  s.logger,
		metrics: s.metrics,
	}
}

// DataURI fetches an absolute url and encodes it as data url.
func (in *Inliner) DataURI(ctx context.Context, source, u string) vo.Outcome {
	u = strings.TrimSpace(u)
	if u == "" || hasPrefixFold(u, "data:") || hasPrefixFold(u, "about:") {
		return in.record(ctx, vo.Unchanged(source, u, vo.ReasonSkipped, nil))
	}
	if !IsValidURL(u) {
		return in.record(ctx, vo.Unchanged(source, u, vo.ReasonInvalidURL, nil))
	}
	result, unchanged := in.fetch(ctx, source, u)
	if result == nil {
		return in.record(ctx, unchanged)
	}
	return in.record(ctx, vo.Inlined(source, u, dataURL(result)))
}

// fetch returns either a usable result or the outcome explaining why there
// is none.
func (in *Inliner) fetch(ctx context.Context, source, u string) (*vo.FetchResult, vo.Outcome) {
	if errCtx := ctx.Err(); errCtx != nil {
		return nil, vo.Unchanged(source, u, vo.ReasonCanceled, errCtx)
	}
	start := time.Now()
	result, errFetch := in.fetcher.Fetch(ctx, u)
	in.metrics.observeFetch(time.Since(start))
	switch {
	case errFetch != nil:
		return nil, vo.Unchanged(source, u, vo.ReasonFetchFailed, errFetch)
	case result == nil:
		return nil, vo.Unchanged(source, u, vo.ReasonFetchFailed, nil)
	case !result.OK():
		return nil, vo.Unchanged(source, u, vo.ReasonBadStatus, nil)
	case len(result.Body) == 0:
		return nil, vo.Unchanged(source, u, vo.ReasonEmpty, nil)
	}
	return result, vo.Outcome{}
}

func (in *Inliner) record(ctx context.Context, o vo.Outcome) vo.Outcome {
	in.metrics.inline(o)
	if o.Kind == vo.OutcomeUnchanged {
		level := slog.LevelWarn
		if o.Reason == vo.ReasonSkipped {
			level = slog.LevelDebug
		}
		in.logger.Log(ctx, level, "reference left unchanged",
			slog.String("source", o.Source),
			slog.String("url", o.URL),
			slog.String("reason", string(o.Reason)),
			slog.String("err", o.Err),
		)
	}
	return o
}

// dataURL encodes a fetch result as data:<type>;base64,<body>. The media type
// is written without spaces, so the result can be used unquoted in css.
func dataURL(result *vo.FetchResult) string {
	mediaType, params, errParse := mime.ParseMediaType(result.ContentType())
	if errParse != nil || mediaType == "" {
		mediaType, params, _ = mime.ParseMediaType(http.DetectContentType(result.Body))
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	sb := strings.Builder{}
	sb.WriteString("data:")
	sb.WriteString(mediaType)
	for _, key := range keys {
		value := params[key]
		if strings.ContainsAny(value, " ;,()\"'") {
			continue
		}
		sb.WriteString(";" + key + "=" + value)
	}
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(result.Body))
	return sb.String()
}
