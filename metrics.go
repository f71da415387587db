package cairn

import (
	"strconv"
	"time"

	"github.com/foomo/cairn/vo"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of a cairn process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	inlineTotal   *prometheus.CounterVec
	fetchDuration prometheus.Summary
	capturesTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg, a nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	const prometheusLabelSource = "source"
	const prometheusLabelOutcome = "outcome"
	const prometheusLabelStatus = "status"

	m := &Metrics{
		inlineTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cairn_inline_total",
				Help: "inlining attempts by source and outcome",
			},
			[]string{prometheusLabelSource, prometheusLabelOutcome},
		),
		fetchDuration: prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name:       "cairn_fetch_duration_seconds",
				Help:       "subresource fetch duration including reading the body",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
		),
		capturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cairn_captures_total",
				Help: "page captures by status",
			},
			[]string{prometheusLabelStatus},
		),
	}
	if reg != nil {
		reg.MustRegister(
			m.inlineTotal,
			m.fetchDuration,
			m.capturesTotal,
		)
	}
	return m
}

func (m *Metrics) inline(o vo.Outcome) {
	if m == nil {
		return
	}
	outcome := string(o.Kind)
	if o.Reason != vo.ReasonNone {
		outcome = string(o.Reason)
	}
	m.inlineTotal.WithLabelValues(o.Source, outcome).Inc()
}

func (m *Metrics) observeFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) capture(code int, err error) {
	if m == nil {
		return
	}
	status := strconv.Itoa(code)
	if err != nil {
		status = "error"
	}
	m.capturesTotal.WithLabelValues(status).Inc()
}
