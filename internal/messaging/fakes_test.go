package messaging

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sudo-init-do/propnest/internal/listing"
)

type memRepo struct {
	mu        sync.Mutex
	items     []Enquiry
	insertErr error
}

func (r *memRepo) Insert(_ context.Context, e *Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	e.ID = fmt.Sprintf("m%d", len(r.items)+1)
	r.items = append(r.items, *e)
	return nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID string) ([]Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Enquiry
	for _, e := range r.items {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) SetStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type memListings map[string]*listing.Listing

func (m memListings) Lookup(_ context.Context, id string) (*listing.Listing, error) {
	if l, ok := m[id]; ok {
		return l, nil
	}
	return nil, listing.ErrNotFound
}

type recorder struct {
	mu     sync.Mutex
	events map[string][]Event
}

func (r *recorder) Publish(ownerID string, evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string][]Event{}
	}
	r.events[ownerID] = append(r.events[ownerID], evt)
}
