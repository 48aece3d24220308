package metrics

import (
	"context"
	"time"

	"github.com/KirkDiggler/coc-keeper/internal/clients/inference"
)

type instrumentedClient struct {
	next     inference.Client
	recorder *Recorder
}

// InstrumentInference times every Chat call on next
func InstrumentInference(next inference.Client, recorder *Recorder) inference.Client {
	if recorder == nil {
		return next
	}
	return &instrumentedClient{next: next, recorder: recorder}
}

func (c *instrumentedClient) Chat(ctx context.Context, input *inference.ChatInput) (*inference.ChatOutput, error) {
	start := time.Now()
	out, err := c.next.Chat(ctx, input)
	c.recorder.inferenceDuration.WithLabelValues(outcome(err)).Observe(time.Since(start).Seconds())

	if out != nil {
		c.recorder.inferenceTokens.WithLabelValues(DirectionPrompt).Add(float64(out.PromptTokens))
		c.recorder.inferenceTokens.WithLabelValues(DirectionCompletion).Add(float64(out.CompletionTokens))
	}
	return out, err
}
