package notify

import "context"

// Notifier delivers messages to the site admins. Delivery is best effort.
type Notifier interface {
	NotifyAdmins(ctx context.Context, msg string)
}

// Noop is a no-op notifier.
type Noop struct{}

func (Noop) NotifyAdmins(context.Context, string) {}
