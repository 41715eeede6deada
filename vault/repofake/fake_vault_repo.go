package fakevaultrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-vault-server/vault"
)

var _ vault.Repo = (*FakeVaultRepo)(nil)

// FakeVaultRepo keeps entries per owner in insertion order
type FakeVaultRepo struct {
	entries map[string][]*vault.Entry // owner email to entries
	lock    sync.RWMutex
}

func NewFakeVaultRepo() vault.Repo {
	return &FakeVaultRepo{
		entries: make(map[string][]*vault.Entry),
	}
}

func (vr *FakeVaultRepo) Create(_ context.Context, entry *vault.Entry) error {
	vr.lock.Lock()
	defer vr.lock.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	stored := *entry
	vr.entries[entry.OwnerEmail] = append(vr.entries[entry.OwnerEmail], &stored)
	return nil
}

func (vr *FakeVaultRepo) ListByOwner(_ context.Context, ownerEmail string) ([]*vault.Entry, error) {
	vr.lock.RLock()
	defer vr.lock.RUnlock()

	return copyEntries(vr.entries[ownerEmail], func(*vault.Entry) bool { return true }), nil
}

func (vr *FakeVaultRepo) FindByWebsite(_ context.Context, ownerEmail, website string) ([]*vault.Entry, error) {
	vr.lock.RLock()
	defer vr.lock.RUnlock()

	return copyEntries(vr.entries[ownerEmail], func(e *vault.Entry) bool { return e.Website == website }), nil
}

func copyEntries(src []*vault.Entry, keep func(*vault.Entry) bool) []*vault.Entry {
	out := make([]*vault.Entry, 0, len(src))
	for _, e := range src {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}
	return out
}
