package overrides

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Override stores one edited text value for a page element in a single
// locale. Each locale carries its own independent row; the triple
// (page_path, element_id, locale) identifies the record.
type Override struct {
	bun.BaseModel `bun:"table:content_overrides,alias:co"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	PagePath  string    `bun:"page_path,notnull" json:"page_path"`
	ElementID string    `bun:"element_id,notnull" json:"element_id"`
	Locale    string    `bun:"locale,notnull" json:"locale"`
	Content   string    `bun:"content,notnull" json:"content"`
	Original  string    `bun:"original,notnull" json:"original"`
	UpdatedBy string    `bun:"updated_by" json:"updated_by,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Key identifies an override row in the backend.
type Key struct {
	PagePath  string
	ElementID string
	Locale    string
}

// KeyOf extracts the identifying triple from a record.
func KeyOf(record *Override) Key {
	if record == nil {
		return Key{}
	}
	return Key{
		PagePath:  record.PagePath,
		ElementID: record.ElementID,
		Locale:    record.Locale,
	}
}

// Valid reports whether every component of the key is present.
func (k Key) Valid() bool {
	return strings.TrimSpace(k.PagePath) != "" &&
		strings.TrimSpace(k.ElementID) != "" &&
		strings.TrimSpace(k.Locale) != ""
}

// Scope is the (page path, locale) pair keying the active cache. Everything
// in one scope is fetched and invalidated together.
type Scope struct {
	PagePath string
	Locale   string
}

// IsZero reports whether the scope has no page context yet.
func (s Scope) IsZero() bool {
	return strings.TrimSpace(s.PagePath) == ""
}
