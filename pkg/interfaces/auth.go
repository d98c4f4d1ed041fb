package interfaces

import "context"

// AuthProvider resolves the acting identity and its permissions. The overlay
// treats a missing identity and a missing permission identically: read-only.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
	HasPermission(ctx context.Context, permission string) (bool, error)
}
