package billing

import (
	"context"
	"sync"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// StoreRepo persists bills as a whole-collection document. It also
// satisfies the registry package's BillCascade contract.
type StoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewStoreRepo(st store.Store) *StoreRepo {
	return &StoreRepo{st: st}
}

func (r *StoreRepo) load() ([]*Bill, error) {
	var bs []*Bill
	if err := r.st.Load(store.Bills, &bs); err != nil {
		return nil, err
	}
	return bs, nil
}

func (r *StoreRepo) Create(_ context.Context, b *Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bs, err := r.load()
	if err != nil {
		return err
	}
	bs = append(bs, b)
	return r.st.Save(store.Bills, bs)
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bs, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, b := range bs {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreRepo) Update(_ context.Context, b *Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bs, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range bs {
		if existing.ID == b.ID {
			bs[i] = b
			return r.st.Save(store.Bills, bs)
		}
	}
	return ErrNotFound
}

func (r *StoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bs, err := r.load()
	if err != nil {
		return err
	}
	kept := bs[:0]
	for _, b := range bs {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bs) {
		return ErrNotFound
	}
	return r.st.Save(store.Bills, kept)
}

func (r *StoreRepo) List(_ context.Context) ([]*Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *StoreRepo) DeleteForPatient(_ context.Context, patientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bs, err := r.load()
	if err != nil {
		return 0, err
	}
	kept := bs[:0]
	for _, b := range bs {
		if b.PatientID != patientID {
			kept = append(kept, b)
		}
	}
	removed := len(bs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.st.Save(store.Bills, kept)
}
