package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the register module.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	PeopleAdded         prometheus.Counter
	DuplicatesRejected  prometheus.Counter
	RecordsLoaded       *prometheus.GaugeVec
	RecordsSkipped      *prometheus.CounterVec
	SnapshotSaveLatency *prometheus.HistogramVec
}

// New creates the register metrics and registers them with reg.
// Pass a fresh prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PeopleAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "citizenreg_people_added_total",
			Help: "Total number of people added to the register",
		}),
		DuplicatesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "citizenreg_duplicates_rejected_total",
			Help: "Total number of add attempts rejected as duplicates",
		}),
		RecordsLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "citizenreg_records_loaded",
			Help: "Number of records in the last snapshot loaded, by backend",
		}, []string{"backend"}), // backend: "json", "bolt"
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "citizenreg_records_skipped_total",
			Help: "Malformed or duplicate snapshot entries skipped on load, by backend",
		}, []string{"backend"}),
		SnapshotSaveLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "citizenreg_snapshot_save_duration_seconds",
			Help:    "Duration of full snapshot writes, by backend",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		}, []string{"backend"}),
	}
}

func (m *Metrics) IncrementPeopleAdded() {
	if m != nil {
		m.PeopleAdded.Inc()
	}
}

func (m *Metrics) IncrementDuplicatesRejected() {
	if m != nil {
		m.DuplicatesRejected.Inc()
	}
}

// RecordLoad records the outcome of one snapshot load.
func (m *Metrics) RecordLoad(backend string, loaded, skipped int) {
	if m == nil {
		return
	}
	m.RecordsLoaded.WithLabelValues(backend).Set(float64(loaded))
	if skipped > 0 {
		m.RecordsSkipped.WithLabelValues(backend).Add(float64(skipped))
	}
}

// ObserveSave records the duration of a snapshot write.
// Call with time.Now() taken before the write.
func (m *Metrics) ObserveSave(backend string, start time.Time) {
	if m != nil {
		m.SnapshotSaveLatency.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	}
}
