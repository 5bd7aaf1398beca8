package accounts

import (
	"context"
	"sync"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// StoreRepo persists users as a whole-collection document.
type StoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewStoreRepo(st store.Store) *StoreRepo {
	return &StoreRepo{st: st}
}

func (r *StoreRepo) load() ([]*User, error) {
	var us []*User
	if err := r.st.Load(store.Users, &us); err != nil {
		return nil, err
	}
	return us, nil
}

func (r *StoreRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	us, err := r.load()
	if err != nil {
		return err
	}
	us = append(us, u)
	return r.st.Save(store.Users, us)
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	us, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range us {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreRepo) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	us, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range us {
		if existing.ID == u.ID {
			us[i] = u
			return r.st.Save(store.Users, us)
		}
	}
	return ErrNotFound
}

func (r *StoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	us, err := r.load()
	if err != nil {
		return err
	}
	kept := us[:0]
	for _, u := range us {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(us) {
		return ErrNotFound
	}
	return r.st.Save(store.Users, kept)
}

func (r *StoreRepo) List(_ context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}
