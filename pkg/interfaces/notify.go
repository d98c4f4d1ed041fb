package interfaces

import "context"

// Notifier surfaces transient, non-blocking notices to the acting user.
// Implementations map these onto whatever toast/flash mechanism the host
// UI provides. Failures to deliver a notice are swallowed by callers.
type Notifier interface {
	Success(ctx context.Context, msg string, args ...any)
	Failure(ctx context.Context, msg string, args ...any)
}
