package metrics

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
)

// Subscribe records resolved checks published on bus. Subscribers run at
// the lowest priority so game logic sees events first.
func (r *Recorder) Subscribe(bus events.EventBus) []string {
	return []string{
		bus.SubscribeFunc(resolver.EventCheckResolved, 0, r.onCheck),
		bus.SubscribeFunc(resolver.EventSanityResolved, 0, r.onSanity),
		bus.SubscribeFunc(resolver.EventLuckSpent, 0, r.onLuck),
	}
}

func (r *Recorder) onCheck(ctx context.Context, event events.Event) error {
	tier, ok := stringValue(event, resolver.KeyTier)
	if !ok {
		slog.DebugContext(ctx, "check event without tier", "event", resolver.EventCheckResolved)
		return nil
	}
	origin, _ := stringValue(event, resolver.KeyOrigin)
	r.checks.WithLabelValues(tier, origin).Inc()
	return nil
}

func (r *Recorder) onSanity(_ context.Context, event events.Event) error {
	result := ResultFailed
	if passed, ok := event.Context().Get(resolver.KeyPassed); ok {
		if b, _ := passed.(bool); b {
			result = ResultPassed
		}
	}
	origin, _ := stringValue(event, resolver.KeyOrigin)
	r.sanity.WithLabelValues(result, origin).Inc()

	if loss, ok := event.Context().Get(resolver.KeyLoss); ok {
		if n, _ := loss.(int); n > 0 {
			r.sanityLost.Add(float64(n))
		}
	}
	return nil
}

func (r *Recorder) onLuck(_ context.Context, event events.Event) error {
	tier, _ := stringValue(event, resolver.KeyTier)
	r.luckSpent.WithLabelValues(tier).Inc()
	return nil
}

func stringValue(event events.Event, key string) (string, bool) {
	v, ok := event.Context().Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
