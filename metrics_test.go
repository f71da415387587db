package cairn

import (
	"errors"
	"testing"
	"time"

	"github.com/foomo/cairn/vo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.inline(vo.Inlined("media", "http://h/a.png", "data:"))
	m.inline(vo.Unchanged("media", "http://h/b.png", vo.ReasonBadStatus, nil))
	m.inline(vo.Unchanged("css", "http://h/c.png", vo.ReasonBadStatus, nil))
	m.observeFetch(time.Millisecond)
	m.capture(200, nil)
	m.capture(0, errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.inlineTotal.WithLabelValues("media", "inlined")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inlineTotal.WithLabelValues("media", "bad-status")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.inlineTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.capturesTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))

	count, errGather := testutil.GatherAndCount(reg, "cairn_captures_total")
	assert.NoError(t, errGather)
	assert.Equal(t, 2, count)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.inline(vo.Inlined("media", "u", "d"))
		m.observeFetch(time.Second)
		m.capture(200, nil)
	})
	assert.NotPanics(t, func() {
		NewMetrics(nil).capture(200, nil)
	})
}
