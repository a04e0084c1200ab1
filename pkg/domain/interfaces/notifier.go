package interfaces

import "context"

// Notifier is the outbound notification boundary. Delivery and retry
// semantics belong entirely to the implementation; the reconciler treats every
// call as fire-and-forget and never lets a notification failure propagate.
type Notifier interface {
	Notify(ctx context.Context, event string, payload map[string]any) error
}
