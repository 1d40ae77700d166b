package notifier

import "context"

// Notifier publishes domain events. Publish reports whether the event was
// handed off; callers treat false as a logged degradation, never as a
// reason to undo a committed write.
type Notifier interface {
	Publish(ctx context.Context, topic, key string, payload any) bool
}

// Fanout hands every event to each notifier in order.
type Fanout []Notifier

// Publish returns true only if every notifier accepted the event.
func (f Fanout) Publish(ctx context.Context, topic, key string, payload any) bool {
	ok := len(f) > 0
	for _, n := range f {
		if n == nil {
			continue
		}
		if !n.Publish(ctx, topic, key, payload) {
			ok = false
		}
	}
	return ok
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) bool { return false }
