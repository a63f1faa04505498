package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gitrdm/gomarkov/pkg/markov"
)

const namespace = "markov"

// SearchCollector exports a markov.SearchMonitor as Prometheus metrics.
// Values are read from the monitor on every scrape.
type SearchCollector struct {
	monitor *markov.SearchMonitor

	candidates  *prometheus.Desc
	pruned      *prometheus.Desc
	evaluated   *prometheus.Desc
	evaluations *prometheus.Desc
	failures    *prometheus.Desc
	matches     *prometheus.Desc
	lastIndex   *prometheus.Desc
	seconds     *prometheus.Desc
}

// NewSearchCollector creates a collector for m.
func NewSearchCollector(m *markov.SearchMonitor) *SearchCollector {
	return &SearchCollector{
		monitor: m,
		candidates: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "candidates_total"),
			"Programs built from an index.", nil, nil),
		pruned: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "pruned_total"),
			"Programs rejected before evaluation.", []string{"reason"}, nil),
		evaluated: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "evaluated_total"),
			"Programs run against the test set.", nil, nil),
		evaluations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "evaluations_total"),
			"Single test-case runs.", nil, nil),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "failures_total"),
			"Test-case runs that did not produce the expected output.", []string{"cause"}, nil),
		matches: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "matches_total"),
			"Programs that passed every test.", nil, nil),
		lastIndex: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "index"),
			"Most recent index visited.", nil, nil),
		seconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "search", "seconds_total"),
			"Time spent searching.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *SearchCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.candidates
	ch <- c.pruned
	ch <- c.evaluated
	ch <- c.evaluations
	ch <- c.failures
	ch <- c.matches
	ch <- c.lastIndex
	ch <- c.seconds
}

// Collect implements prometheus.Collector.
func (c *SearchCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.monitor.GetStats()
	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	counter(c.candidates, s.Candidates)
	counter(c.pruned, s.PrunedNoOp, markov.PruneNoOp.String())
	counter(c.pruned, s.PrunedDuplicate, markov.PruneDuplicatePattern.String())
	counter(c.evaluated, s.Evaluated)
	counter(c.evaluations, s.Evaluations)
	counter(c.failures, s.StepLimit, "step_limit")
	counter(c.failures, s.LengthLimit, "length_limit")
	counter(c.failures, s.Mismatches, "mismatch")
	counter(c.matches, s.Matches)
	ch <- prometheus.MustNewConstMetric(c.lastIndex, prometheus.GaugeValue, float64(s.LastIndex))
	ch <- prometheus.MustNewConstMetric(c.seconds, prometheus.CounterValue, s.SearchTime.Seconds())
}
