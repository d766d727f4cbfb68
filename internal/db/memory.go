package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sudo-init-do/propnest/internal/config"
	"github.com/sudo-init-do/propnest/internal/listing"
	"github.com/sudo-init-do/propnest/internal/messaging"
	"github.com/sudo-init-do/propnest/internal/user"
)

// NewMemoryStore returns a Store that lives only in process memory.
func NewMemoryStore() *Store {
	return &Store{
		Driver:   config.DriverMemory,
		Listings: &MemoryListings{},
		Messages: &MemoryMessages{},
		Users:    &MemoryUsers{},
	}
}

type MemoryListings struct {
	mu    sync.RWMutex
	items []listing.Listing
}

func (r *MemoryListings) Insert(_ context.Context, l *listing.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = uuid.New().String()
	stored := *l
	stored.Images = append([]string(nil), l.Images...)
	if l.Location != nil {
		loc := *l.Location
		stored.Location = &loc
	}
	r.items = append(r.items, stored)
	return nil
}

func (r *MemoryListings) List(context.Context) ([]listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]listing.Listing, 0, len(r.items)), r.items...), nil
}

func (r *MemoryListings) FindByID(_ context.Context, id string) (*listing.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.items {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, listing.ErrNotFound
}

type MemoryMessages struct {
	mu    sync.RWMutex
	items []messaging.Enquiry
}

func (r *MemoryMessages) Insert(_ context.Context, e *messaging.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.New().String()
	r.items = append(r.items, *e)
	return nil
}

func (r *MemoryMessages) ListByOwner(_ context.Context, ownerID string) ([]messaging.Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]messaging.Enquiry, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].OwnerID == ownerID {
			out = append(out, r.items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *MemoryMessages) FindByID(_ context.Context, id string) (*messaging.Enquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.items {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, messaging.ErrNotFound
}

func (r *MemoryMessages) SetStatus(_ context.Context, id string, status messaging.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return messaging.ErrNotFound
}

type MemoryUsers struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func (r *MemoryUsers) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	if r.items == nil {
		r.items = make(map[string]user.User)
	}
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()
	r.items[u.ID] = *u
	return nil
}

func (r *MemoryUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.items[id]; ok {
		return &u, nil
	}
	return nil, user.ErrNotFound
}

func (r *MemoryUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *MemoryUsers) FindByIDs(_ context.Context, ids []string) (map[string]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.items[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *MemoryUsers) SetRole(_ context.Context, email string, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.items {
		if u.Email == email {
			u.Role = role
			r.items[id] = u
			return nil
		}
	}
	return user.ErrNotFound
}
