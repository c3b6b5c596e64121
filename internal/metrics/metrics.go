// Package metrics defines the Prometheus collectors for batch parsing and
// writes them in the node-exporter textfile format once a batch is done.
package metrics

import (
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ling0322/pcfg/v2"
)

// Metrics holds the Prometheus collectors of a parsing run. It implements
// pcfg.BatchObserver.
type Metrics struct {
	SentencesTotal *prometheus.CounterVec
	ParseDuration  prometheus.Histogram
	SentenceTokens prometheus.Histogram
	BatchesTotal   prometheus.Counter
	BatchDuration  prometheus.Histogram
	BatchWorkers   prometheus.Gauge
}

var _ pcfg.BatchObserver = (*Metrics)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SentencesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pcfg_sentences_total",
				Help: "Sentences processed by outcome (parsed, no_parse, ignored, rejected).",
			},
			[]string{"outcome"},
		),
		ParseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pcfg_parse_duration_seconds",
				Help:    "Time to parse one sentence in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		SentenceTokens: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pcfg_sentence_tokens",
				Help:    "Number of tokens per sentence.",
				Buckets: []float64{1, 5, 10, 15, 20, 25, 40, 60},
			},
		),
		BatchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pcfg_batches_total",
				Help: "Batches of sentences parsed.",
			},
		),
		BatchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pcfg_batch_duration_seconds",
				Help:    "Wall time to parse one batch in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
		BatchWorkers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pcfg_batch_workers",
				Help: "Workers used by the last batch.",
			},
		),
	}

	reg.MustRegister(
		m.SentencesTotal,
		m.ParseDuration,
		m.SentenceTokens,
		m.BatchesTotal,
		m.BatchDuration,
		m.BatchWorkers,
	)
	return m
}

// ObserveParse records one parsed sentence.
func (m *Metrics) ObserveParse(tokens int, result pcfg.Result, elapsed time.Duration) {
	m.SentencesTotal.WithLabelValues(result.Outcome.String()).Inc()
	m.ParseDuration.Observe(elapsed.Seconds())
	m.SentenceTokens.Observe(float64(tokens))
}

// ObserveBatch records a finished batch. The run id is logged, not used as
// a label.
func (m *Metrics) ObserveBatch(run string, sentences, workers int, elapsed time.Duration) {
	m.BatchesTotal.Inc()
	m.BatchDuration.Observe(elapsed.Seconds())
	m.BatchWorkers.Set(float64(workers))
	glog.V(1).Infof("run %s: %d sentences, %d workers, %v", run, sentences, workers, elapsed)
}

// WriteTextfile writes everything gathered by g to path, atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
