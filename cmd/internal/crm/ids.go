package crm

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// Entity IDs are prefixed ULIDs: sortable, URL-safe, and self-describing.

// NewCustomerID returns a fresh customer id.
func NewCustomerID() string {
	return "customer-" + strings.ToLower(ulid.Make().String())
}

// NewNoteID returns a fresh note id.
func NewNoteID() string {
	return "note-" + strings.ToLower(ulid.Make().String())
}

func newLinkID() string {
	return strings.ToLower(ulid.Make().String())
}
