package cairn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/cairn/vo"
	"golang.org/x/net/html"
)

type Pass string

const (
	PassCSP             Pass = "csp"
	PassConfiguration   Pass = "configuration"
	PassNoscriptMark    Pass = "noscript-mark"
	PassComments        Pass = "comments"
	PassLazyImages      Pass = "lazy-images"
	PassAbsoluteURLs    Pass = "absolute-urls"
	PassIntegrity       Pass = "integrity"
	PassOpenGraph       Pass = "open-graph"
	PassCharset         Pass = "charset"
	PassSource          Pass = "source"
	PassInlineResources Pass = "inline-resources"
	PassNoscriptRestore Pass = "noscript-restore"
)

// DefaultPasses is the order a capture runs in.
var DefaultPasses = []Pass{
	PassCSP,
	PassConfiguration,
	PassNoscriptMark,
	PassComments,
	PassLazyImages,
	PassAbsoluteURLs,
	PassIntegrity,
	PassOpenGraph,
	PassCharset,
	PassSource,
	PassInlineResources,
	PassNoscriptRestore,
}

// Invariant is a property of the document a pass relies on or produces.
type Invariant string

const (
	InvariantPolicyInjected     Invariant = "policy-injected"
	InvariantConfigurationDone  Invariant = "configuration-applied"
	InvariantNoscriptMarked     Invariant = "noscript-marked"
	InvariantNoComments         Invariant = "no-comments"
	InvariantLazyNormalized     Invariant = "lazy-normalized"
	InvariantAbsoluteURLs       Invariant = "absolute-urls"
	InvariantNoIntegrity        Invariant = "no-integrity"
	InvariantOpenGraphCompanion Invariant = "open-graph-companions"
	InvariantCharsetUTF8        Invariant = "charset-utf8"
	InvariantSourceRecorded     Invariant = "source-recorded"
	InvariantInlined            Invariant = "inlined"
)

type passDefinition struct {
	requires    []Invariant
	establishes []Invariant
	invalidates []Invariant
	run         func(c *capture)
}

var (
	ErrUnknownPass = errors.New("unknown pass")
	ErrPassOrder   = errors.New("pass requirement not met")
)

func passDefinitions() map[Pass]passDefinition {
	return map[Pass]passDefinition{
		PassCSP: {
			establishes: []Invariant{InvariantPolicyInjected},
			run:         passCSP,
		},
		PassConfiguration: {
			requires:    []Invariant{InvariantPolicyInjected},
			establishes: []Invariant{InvariantConfigurationDone},
			run:         passConfiguration,
		},
		PassNoscriptMark: {
			requires:    []Invariant{InvariantConfigurationDone},
			establishes: []Invariant{InvariantNoscriptMarked},
			run:         passNoscriptMark,
		},
		PassComments: {
			establishes: []Invariant{InvariantNoComments},
			run:         passComments,
		},
		PassLazyImages: {
			establishes: []Invariant{InvariantLazyNormalized},
			run:         passLazyImages,
		},
		PassAbsoluteURLs: {
			requires:    []Invariant{InvariantNoscriptMarked, InvariantLazyNormalized},
			establishes: []Invariant{InvariantAbsoluteURLs},
			run:         passAbsoluteURLs,
		},
		PassIntegrity: {
			establishes: []Invariant{InvariantNoIntegrity},
			run:         passIntegrity,
		},
		PassOpenGraph: {
			establishes: []Invariant{InvariantOpenGraphCompanion},
			run:         passOpenGraph,
		},
		PassCharset: {
			establishes: []Invariant{InvariantCharsetUTF8},
			run:         passCharset,
		},
		PassSource: {
			establishes: []Invariant{InvariantSourceRecorded},
			run:         passSource,
		},
		PassInlineResources: {
			requires: []Invariant{
				InvariantConfigurationDone,
				InvariantNoscriptMarked,
				InvariantAbsoluteURLs,
				InvariantNoIntegrity,
			},
			establishes: []Invariant{InvariantInlined},
			run:         passInlineResources,
		},
		PassNoscriptRestore: {
			requires:    []Invariant{InvariantNoscriptMarked},
			invalidates: []Invariant{InvariantNoscriptMarked},
			run:         passNoscriptRestore,
		},
	}
}

// ValidatePasses checks that every pass is known and finds the invariants it
// requires established by an earlier pass.
func ValidatePasses(passes []Pass) error {
	definitions := passDefinitions()
	established := map[Invariant]bool{}
	for i, pass := range passes {
		definition, ok := definitions[pass]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPass, pass)
		}
		for _, invariant := range definition.requires {
			if !established[invariant] {
				return fmt.Errorf("%w: pass %d %q requires %q", ErrPassOrder, i, pass, invariant)
			}
		}
		for _, invariant := range definition.invalidates {
			delete(established, invariant)
		}
		for _, invariant := range definition.establishes {
			established[invariant] = true
		}
	}
	return nil
}

type settings struct {
	logger        *slog.Logger
	metrics       *Metrics
	passes        []Pass
	fetcher       Fetcher
	respectRobots bool
}

type Option func(*settings)

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithPasses replaces the pass order, it is validated when the processor runs.
func WithPasses(passes ...Pass) Option {
	return func(s *settings) {
		s.passes = passes
	}
}

// WithFetcher replaces the http fetcher of an archiver.
func WithFetcher(f Fetcher) Option {
	return func(s *settings) {
		s.fetcher = f
	}
}

// WithRobots makes the archiver honour robots.txt of the captured host.
func WithRobots(respect bool) Option {
	return func(s *settings) {
		s.respectRobots = respect
	}
}

func newSettings(opts []Option) settings {
	s := settings{passes: DefaultPasses}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Processor turns a page into a single self contained document.
type Processor struct {
	inliner *Inliner
	options vo.Options
	passes  []Pass
	logger  *slog.Logger
}

func NewProcessor(fetcher Fetcher, options vo.Options, opts ...Option) *Processor {
	s := newSettings(opts)
	return &Processor{
		inliner: &Inliner{fetcher: fetcher, logger: s.logger, metrics: s.metrics},
		options: options,
		passes:  s.passes,
		logger:  s.logger,
	}
}

// capture is the state of one run, it owns the document.
type capture struct {
	ctx      context.Context
	doc      *goquery.Document
	baseURL  string
	options  vo.Options
	inliner  *Inliner
	logger   *slog.Logger
	outcomes vo.Outcomes
}

func (c *capture) inline(o vo.Outcome) vo.Outcome {
	c.outcomes.Add(o)
	return o
}

func (p *Processor) Process(ctx context.Context, page, baseURL string) (string, error) {
	webpage, _, err := p.ProcessReport(ctx, page, baseURL)
	return webpage, err
}

// ProcessReport runs all passes and returns the document together with the
// outcome of every inlining attempt.
func (p *Processor) ProcessReport(ctx context.Context, page, baseURL string) (webpage string, outcomes vo.Outcomes, err error) {
	if errValidate := ValidatePasses(p.passes); errValidate != nil {
		return "", nil, errValidate
	}
	doc, errParse := parseDocument(strings.NewReader(page))
	if errParse != nil {
		return "", nil, errParse
	}
	c := &capture{
		ctx:      ctx,
		doc:      doc,
		baseURL:  baseURL,
		options:  p.options,
		inliner:  p.inliner,
		logger:   p.logger.With(slog.String("page", baseURL)),
		outcomes: vo.Outcomes{},
	}
	definitions := passDefinitions()
	for _, pass := range p.passes {
		c.logger.Debug("running pass", slog.String("pass", string(pass)))
		definitions[pass].run(c)
	}
	webpage, err = renderDocument(doc)
	return webpage, c.outcomes, err
}

// parseDocument parses with scripting disabled, the content of noscript
// elements becomes a regular subtree.
func parseDocument(r io.Reader) (*goquery.Document, error) {
	root, errParse := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if errParse != nil {
		return nil, errParse
	}
	return goquery.NewDocumentFromNode(root), nil
}

func renderDocument(doc *goquery.Document) (string, error) {
	sb := &strings.Builder{}
	for _, n := range doc.Nodes {
		if errRender := html.Render(sb, n); errRender != nil {
			return "", errRender
		}
	}
	return sb.String(), nil
}
