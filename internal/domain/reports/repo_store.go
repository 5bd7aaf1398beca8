package reports

import (
	"context"
	"sync"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// StoreRepo persists report metadata as a whole-collection document.
type StoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewStoreRepo(st store.Store) *StoreRepo {
	return &StoreRepo{st: st}
}

func (r *StoreRepo) load() ([]*Report, error) {
	var rs []*Report
	if err := r.st.Load(store.Reports, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (r *StoreRepo) Create(_ context.Context, rep *Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, err := r.load()
	if err != nil {
		return err
	}
	rs = append(rs, rep)
	return r.st.Save(store.Reports, rs)
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, rep := range rs {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, err := r.load()
	if err != nil {
		return err
	}
	kept := rs[:0]
	for _, rep := range rs {
		if rep.ID != id {
			kept = append(kept, rep)
		}
	}
	if len(kept) == len(rs) {
		return ErrNotFound
	}
	return r.st.Save(store.Reports, kept)
}

func (r *StoreRepo) List(_ context.Context) ([]*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}
