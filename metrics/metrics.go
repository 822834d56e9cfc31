// Package metrics exposes the results of the last round of checks as
// Prometheus gauges, for scraping via the node exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360studio/ontocheck/checker"
	"github.com/c360studio/ontocheck/vocabulary/owl"
)

const namespace = "ontocheck"

// Recorder holds the gauges in a private registry.
type Recorder struct {
	registry *prometheus.Registry

	triples       *prometheus.GaugeVec
	declarations  *prometheus.GaugeVec
	passed        *prometheus.GaugeVec
	parseDuration *prometheus.GaugeVec
	lastCheck     prometheus.Gauge

	now func() time.Time
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		triples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "triples",
			Help:      "Distinct triples in the ontology at the last check.",
		}, []string{"path"}),
		declarations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "declarations",
			Help:      "Subjects declared with rdf:type of an OWL kind at the last check.",
		}, []string{"path", "kind"}),
		passed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "check_passed",
			Help:      "1 if the last check of the ontology passed, 0 otherwise.",
		}, []string{"path", "state"}),
		parseDuration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent decoding the ontology at the last check.",
		}, []string{"path"}),
		lastCheck: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_check_timestamp_seconds",
			Help:      "Unix time of the last round of checks.",
		}),
		now: time.Now,
	}

	r.registry.MustRegister(r.triples, r.declarations, r.passed, r.parseDuration, r.lastCheck)
	return r
}

// Registry returns the registry holding the gauges.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record replaces the gauges with the given round of outcomes.
func (r *Recorder) Record(outcomes []checker.Outcome) {
	r.triples.Reset()
	r.declarations.Reset()
	r.passed.Reset()
	r.parseDuration.Reset()

	for _, o := range outcomes {
		passed := 0.0
		if o.Passed() {
			passed = 1
		}
		r.passed.WithLabelValues(o.Path, string(o.State)).Set(passed)

		if o.Report == nil {
			continue
		}
		r.triples.WithLabelValues(o.Path).Set(float64(o.Report.Triples))
		r.parseDuration.WithLabelValues(o.Path).Set(o.Report.ParseDuration.Seconds())
		for _, kind := range owl.DeclarationKinds() {
			r.declarations.WithLabelValues(o.Path, string(kind)).Set(float64(o.Report.Count(kind)))
		}
	}

	r.lastCheck.Set(float64(r.now().Unix()))
}

// WriteTextfile writes the gauges in the text exposition format. The file is
// written to a temporary name and renamed, so collectors never read a partial file.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
