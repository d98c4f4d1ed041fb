package overrides

import (
	"errors"
	"fmt"
)

var (
	ErrPagePathRequired  = errors.New("overrides: page path is required")
	ErrElementIDRequired = errors.New("overrides: element id is required")
	ErrLocaleRequired    = errors.New("overrides: locale is required")
	ErrCommitFailed      = errors.New("overrides: commit failed")
	ErrRepositoryNil     = errors.New("overrides: repository is required")
	ErrNoSubscriptions   = errors.New("overrides: repository does not support subscriptions")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "override not found"
	}
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// CommitFailedError reports a failed delete-then-insert cycle for a triple.
// The in-memory cache is never touched when this is returned.
type CommitFailedError struct {
	Key   Key
	Cause error
}

func (e *CommitFailedError) Error() string {
	if e == nil {
		return ErrCommitFailed.Error()
	}
	return fmt.Sprintf("%s: path=%s element=%s locale=%s: %v",
		ErrCommitFailed.Error(), e.Key.PagePath, e.Key.ElementID, e.Key.Locale, e.Cause)
}

func (e *CommitFailedError) Unwrap() error {
	return ErrCommitFailed
}
