package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Request("search", OutcomeSuccess)
	m.Request("search", OutcomeSuccess)
	m.Request("instance", OutcomeTransient)
	m.Retry()
	m.CacheLookup(CacheHit)
	m.CacheLookup(CacheMiss)
	m.CacheLookup(CacheMiss)
	m.Records(3)
	m.Graph(120, 4096)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("search", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("instance", OutcomeTransient)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheMiss)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.records))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.statements))
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.outputBytes))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Request("search", OutcomeFatal)
		m.Retry()
		m.CacheLookup(CacheError)
		m.Records(1)
		m.Graph(1, 1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.Records(7)

	path := filepath.Join(t.TempDir(), "cedar2ccf.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cedar2ccf_records_total 7")
	assert.Contains(t, string(data), "# TYPE cedar2ccf_graph_statements gauge")
}
