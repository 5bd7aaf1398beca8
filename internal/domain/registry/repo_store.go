package registry

import (
	"context"
	"sync"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// PatientStoreRepo persists patients as a whole-collection document.
type PatientStoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewPatientStoreRepo(st store.Store) *PatientStoreRepo {
	return &PatientStoreRepo{st: st}
}

func (r *PatientStoreRepo) load() ([]*Patient, error) {
	var ps []*Patient
	if err := r.st.Load(store.Patients, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *PatientStoreRepo) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps, err := r.load()
	if err != nil {
		return err
	}
	ps = append(ps, p)
	return r.st.Save(store.Patients, ps)
}

func (r *PatientStoreRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *PatientStoreRepo) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range ps {
		if existing.ID == p.ID {
			ps[i] = p
			return r.st.Save(store.Patients, ps)
		}
	}
	return ErrNotFound
}

func (r *PatientStoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ps, err := r.load()
	if err != nil {
		return err
	}
	kept := ps[:0]
	for _, p := range ps {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(ps) {
		return ErrNotFound
	}
	return r.st.Save(store.Patients, kept)
}

func (r *PatientStoreRepo) List(_ context.Context) ([]*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// DoctorStoreRepo persists doctors as a whole-collection document.
type DoctorStoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewDoctorStoreRepo(st store.Store) *DoctorStoreRepo {
	return &DoctorStoreRepo{st: st}
}

func (r *DoctorStoreRepo) load() ([]*Doctor, error) {
	var ds []*Doctor
	if err := r.st.Load(store.Doctors, &ds); err != nil {
		return nil, err
	}
	return ds, nil
}

func (r *DoctorStoreRepo) Create(_ context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.load()
	if err != nil {
		return err
	}
	ds = append(ds, d)
	return r.st.Save(store.Doctors, ds)
}

func (r *DoctorStoreRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, d := range ds {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *DoctorStoreRepo) Update(_ context.Context, d *Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range ds {
		if existing.ID == d.ID {
			ds[i] = d
			return r.st.Save(store.Doctors, ds)
		}
	}
	return ErrNotFound
}

func (r *DoctorStoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.load()
	if err != nil {
		return err
	}
	kept := ds[:0]
	for _, d := range ds {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(ds) {
		return ErrNotFound
	}
	return r.st.Save(store.Doctors, kept)
}

func (r *DoctorStoreRepo) List(_ context.Context) ([]*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}
