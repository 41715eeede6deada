package vault

import "context"

// Repo persists vault entries. Entries are append only.
type Repo interface {
	Create(ctx context.Context, entry *Entry) error
	// ListByOwner returns the owner's entries in creation order
	ListByOwner(ctx context.Context, ownerEmail string) ([]*Entry, error)
	FindByWebsite(ctx context.Context, ownerEmail, website string) ([]*Entry, error)
}
