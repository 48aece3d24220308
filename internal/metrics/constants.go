package metrics

// Metric names
const (
	MetricNameCommandsTotal     = "keeper_commands_total"
	MetricNameMessageDuration   = "keeper_message_duration_seconds"
	MetricNameChecksTotal       = "keeper_checks_total"
	MetricNameSanityTotal       = "keeper_sanity_checks_total"
	MetricNameSanityLost        = "keeper_sanity_lost_total"
	MetricNameLuckSpentTotal    = "keeper_luck_spends_total"
	MetricNameInferenceDuration = "keeper_inference_duration_seconds"
	MetricNameInferenceTokens   = "keeper_inference_tokens_total"
	MetricNameDeliveriesTotal   = "keeper_deliveries_total"
)

// Help text
const (
	HelpTextCommandsTotal     = "Chat messages handled, by kind and outcome"
	HelpTextMessageDuration   = "Time spent handling one chat message"
	HelpTextChecksTotal       = "Percentile checks resolved, by tier and origin"
	HelpTextSanityTotal       = "Sanity checks resolved, by result and origin"
	HelpTextSanityLost        = "Sanity points lost across all checks"
	HelpTextLuckSpentTotal    = "Luck spends, by resulting tier"
	HelpTextInferenceDuration = "Inference call latency"
	HelpTextInferenceTokens   = "Tokens reported by the model, by direction"
	HelpTextDeliveriesTotal   = "Outbound chat messages, by channel and outcome"
)

// Labels
const (
	LabelKind      = "kind"
	LabelOutcome   = "outcome"
	LabelTier      = "tier"
	LabelOrigin    = "origin"
	LabelResult    = "result"
	LabelDirection = "direction"
	LabelChannel   = "channel"
)

// Label values
const (
	KindCommand   = "command"
	KindNarration = "narration"
	KindIgnored   = "ignored"

	OutcomeOK    = "ok"
	OutcomeError = "error"

	ChannelGroup  = "group"
	ChannelDirect = "direct"

	ResultPassed = "passed"
	ResultFailed = "failed"

	DirectionPrompt     = "prompt"
	DirectionCompletion = "completion"
)

// InferenceLatencyBuckets spans a quick cached reply up to the default deadline
var InferenceLatencyBuckets = []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 120}
