package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-formrules/pkg/submission"
)

// Collector records engine evaluations and submission outcomes.
type Collector struct {
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	submissions *prometheus.CounterVec
}

var _ submission.Observer = (*Collector)(nil)

// New creates the collectors and registers them on reg. A nil reg skips
// registration.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formrules_evaluations_total",
				Help: "Total number of rule engine evaluations",
			},
			[]string{"form", "can_submit"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formrules_evaluation_duration_seconds",
				Help:    "Duration of rule engine evaluations",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"form"},
		),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formrules_submissions_total",
				Help: "Total number of submissions by outcome",
			},
			[]string{"form", "outcome"},
		),
	}
	if reg == nil {
		return c, nil
	}
	for _, collector := range []prometheus.Collector{c.evaluations, c.duration, c.submissions} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return c, nil
}

// ObserveEvaluation records one evaluation of formID.
func (c *Collector) ObserveEvaluation(formID string, canSubmit bool, elapsed time.Duration) {
	c.evaluations.WithLabelValues(formID, strconv.FormatBool(canSubmit)).Inc()
	c.duration.WithLabelValues(formID).Observe(elapsed.Seconds())
}

// ObserveSubmission records a submission gate decision.
func (c *Collector) ObserveSubmission(formID string, outcome submission.Outcome) {
	c.submissions.WithLabelValues(formID, string(outcome)).Inc()
}
