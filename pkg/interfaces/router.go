package interfaces

import "context"

// PathProvider supplies the logical page path used as the fetch/commit
// scope key. A change in this value invalidates the override cache the
// same way a locale switch does.
type PathProvider interface {
	CurrentPath(ctx context.Context) string
}

// PathProviderFunc adapts a function to the PathProvider contract.
type PathProviderFunc func(ctx context.Context) string

func (fn PathProviderFunc) CurrentPath(ctx context.Context) string {
	return fn(ctx)
}
