package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans markup captured from an editable surface before it is
// persisted. Edits arrive as raw HTML fragments, so everything outside a
// conservative user-generated-content whitelist is stripped on write.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New constructs a sanitizer with the UGC policy: basic formatting and
// links survive, scripts and event handlers do not.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.UGCPolicy()}
}

// NewStrict constructs a sanitizer that strips every tag, leaving text only.
func NewStrict() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean returns the sanitized form of the supplied fragment.
func (s *Sanitizer) Clean(fragment string) string {
	if s == nil || s.policy == nil {
		return fragment
	}
	return strings.TrimSpace(s.policy.Sanitize(fragment))
}
