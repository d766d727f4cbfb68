package listing

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/sudo-init-do/propnest/internal/user"
)

type memRepo struct {
	mu        sync.Mutex
	items     []Listing
	insertErr error
	listErr   error
}

func (r *memRepo) Insert(_ context.Context, l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	l.ID = fmt.Sprintf("l%d", len(r.items)+1)
	r.items = append(r.items, *l)
	return nil
}

func (r *memRepo) List(context.Context) ([]Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]Listing(nil), r.items...), nil
}

func (r *memRepo) FindByID(_ context.Context, id string) (*Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			l := r.items[i]
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

type memUsers struct {
	byID map[string]*user.User
}

func (m *memUsers) Create(context.Context, *user.User) error { return errors.New("not used") }

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m *memUsers) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *memUsers) FindByIDs(_ context.Context, ids []string) (map[string]*user.User, error) {
	out := make(map[string]*user.User)
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *memUsers) SetRole(context.Context, string, user.Role) error { return nil }

type memImages struct {
	mu      sync.Mutex
	stored  map[string]bool
	n       int
	failAt  int // 1-based save that fails; 0 never
	saveErr error
}

func newMemImages() *memImages { return &memImages{stored: map[string]bool{}} }

func (m *memImages) Save(fh *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	if m.failAt == m.n {
		return "", m.saveErr
	}
	p := fmt.Sprintf("/uploads/%d-%s", m.n, fh.Filename)
	m.stored[p] = true
	return p, nil
}

func (m *memImages) Remove(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, p)
	return nil
}

func (m *memImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}
