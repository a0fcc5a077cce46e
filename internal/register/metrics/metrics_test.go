package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementPeopleAdded()
	m.IncrementPeopleAdded()
	m.IncrementDuplicatesRejected()
	m.RecordLoad("json", 3, 2)
	m.RecordLoad("json", 4, 0)
	m.ObserveSave("bolt", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PeopleAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicatesRejected))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.RecordsLoaded.WithLabelValues("json")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsSkipped.WithLabelValues("json")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SnapshotSaveLatency))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncrementPeopleAdded()
		m.IncrementDuplicatesRejected()
		m.RecordLoad("json", 1, 1)
		m.ObserveSave("json", time.Now())
	})
}

func TestWriteToTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.IncrementPeopleAdded()

	path := filepath.Join(t.TempDir(), "citizenreg.prom")
	require.NoError(t, prometheus.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "citizenreg_people_added_total 1"))
}
