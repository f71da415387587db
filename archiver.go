package cairn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/foomo/cairn/vo"
)

var (
	ErrInvalidURL         = errors.New("invalid url")
	ErrDisallowedByRobots = errors.New("disallowed by robots.txt")
	ErrBadStatus          = errors.New("bad status")
	ErrNotHTML            = errors.New("not html")
	ErrNoContent          = errors.New("no content")
)

// Archiver fetches pages and turns them into single file archives. Every
// call of Archive is an independent capture.
type Archiver struct {
	fetcher       Fetcher
	processor     *Processor
	agent         string
	respectRobots bool
	logger        *slog.Logger
	metrics       *Metrics
}

func NewArchiver(options vo.Options, opts ...Option) (*Archiver, error) {
	s := newSettings(opts)
	if errValidate := ValidatePasses(s.passes); errValidate != nil {
		return nil, errValidate
	}
	fetcher := s.fetcher
	if fetcher == nil {
		httpFetcher, errFetcher := NewHTTPFetcher(options)
		if errFetcher != nil {
			return nil, errFetcher
		}
		fetcher = httpFetcher
	}
	agent := options.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	return &Archiver{
		fetcher:       fetcher,
		processor:     NewProcessor(fetcher, options, opts...),
		agent:         agent,
		respectRobots: s.respectRobots,
		logger:        s.logger,
		metrics:       s.metrics,
	}, nil
}

// Archive captures one page. The returned archive is never nil, on error it
// carries what was known up to the failure.
func (a *Archiver) Archive(ctx context.Context, targetURL string) (archived *vo.Archived, err error) {
	start := time.Now()
	archived = &vo.Archived{
		URL:  targetURL,
		Time: start,
	}
	defer func() {
		archived.Duration = time.Since(start)
		if err != nil {
			archived.Error = err.Error()
			a.logger.Error("capture failed", slog.String("url", targetURL), slog.String("err", err.Error()))
		} else {
			a.logger.Info("captured",
				slog.String("url", targetURL),
				slog.Int("inlined", archived.Outcomes.Count(vo.OutcomeInlined)),
				slog.Int("unchanged", archived.Outcomes.Count(vo.OutcomeUnchanged)),
				slog.Duration("duration", archived.Duration),
			)
		}
		a.metrics.capture(archived.Code, err)
	}()

	if !isHTTPURL(targetURL) || !IsValidURL(targetURL) {
		return archived, fmt.Errorf("%w: %q", ErrInvalidURL, targetURL)
	}
	if a.respectRobots && !allowedByRobots(ctx, a.fetcher, targetURL, a.agent) {
		return archived, fmt.Errorf("%w: %q", ErrDisallowedByRobots, targetURL)
	}

	result, errFetch := a.fetcher.Fetch(ctx, targetURL)
	if errFetch != nil {
		return archived, errFetch
	}
	archived.Code = result.Status
	archived.Status = fmt.Sprintf("%d %s", result.Status, http.StatusText(result.Status))
	archived.ContentType = result.ContentType()
	if !result.OK() {
		return archived, fmt.Errorf("%w: %s", ErrBadStatus, archived.Status)
	}
	if !strings.Contains(strings.ToLower(archived.ContentType), "html") {
		return archived, fmt.Errorf("%w: %q", ErrNotHTML, archived.ContentType)
	}
	if len(bytes.TrimSpace(result.Body)) == 0 {
		return archived, ErrNoContent
	}

	baseURL := result.URL
	if baseURL == "" {
		baseURL = targetURL
	}
	webpage, outcomes, errProcess := a.processor.ProcessReport(ctx, string(result.Body), baseURL)
	if errProcess != nil {
		return archived, errProcess
	}
	archived.Webpage = webpage
	archived.Outcomes = outcomes

	structure, errExtract := ExtractStructure(webpage)
	if errExtract != nil {
		return archived, errExtract
	}
	archived.Structure = structure
	return archived, nil
}
