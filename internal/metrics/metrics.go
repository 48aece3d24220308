// Package metrics exposes the bot's prometheus collectors
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns the collectors. Each Recorder registers against its own
// registerer so tests can build one per case.
type Recorder struct {
	commands          *prometheus.CounterVec
	messageDuration   *prometheus.HistogramVec
	checks            *prometheus.CounterVec
	sanity            *prometheus.CounterVec
	sanityLost        prometheus.Counter
	luckSpent         *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	inferenceTokens   *prometheus.CounterVec
	deliveries        *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		commands: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameCommandsTotal, Help: HelpTextCommandsTotal},
			[]string{LabelKind, LabelOutcome},
		),
		messageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricNameMessageDuration,
				Help:    HelpTextMessageDuration,
				Buckets: prometheus.DefBuckets,
			},
			[]string{LabelKind},
		),
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameChecksTotal, Help: HelpTextChecksTotal},
			[]string{LabelTier, LabelOrigin},
		),
		sanity: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameSanityTotal, Help: HelpTextSanityTotal},
			[]string{LabelResult, LabelOrigin},
		),
		sanityLost: factory.NewCounter(
			prometheus.CounterOpts{Name: MetricNameSanityLost, Help: HelpTextSanityLost},
		),
		luckSpent: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameLuckSpentTotal, Help: HelpTextLuckSpentTotal},
			[]string{LabelTier},
		),
		inferenceDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricNameInferenceDuration,
				Help:    HelpTextInferenceDuration,
				Buckets: InferenceLatencyBuckets,
			},
			[]string{LabelOutcome},
		),
		inferenceTokens: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameInferenceTokens, Help: HelpTextInferenceTokens},
			[]string{LabelDirection},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{Name: MetricNameDeliveriesTotal, Help: HelpTextDeliveriesTotal},
			[]string{LabelChannel, LabelOutcome},
		),
	}
}

// Message records one handled chat line
func (r *Recorder) Message(kind string, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.commands.WithLabelValues(kind, outcome(err)).Inc()
	r.messageDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Delivery records one outbound message
func (r *Recorder) Delivery(channel string, err error) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(channel, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
