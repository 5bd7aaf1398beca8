package scheduling

import (
	"context"
	"sync"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
)

// StoreRepo persists appointments as a whole-collection document. It also
// satisfies the registry package's AppointmentCascade contract.
type StoreRepo struct {
	mu sync.Mutex
	st store.Store
}

func NewStoreRepo(st store.Store) *StoreRepo {
	return &StoreRepo{st: st}
}

func (r *StoreRepo) load() ([]*Appointment, error) {
	var as []*Appointment
	if err := r.st.Load(store.Appointments, &as); err != nil {
		return nil, err
	}
	return as, nil
}

func (r *StoreRepo) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	as, err := r.load()
	if err != nil {
		return err
	}
	as = append(as, a)
	return r.st.Save(store.Appointments, as)
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	as, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, a := range as {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (r *StoreRepo) Update(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	as, err := r.load()
	if err != nil {
		return err
	}
	for i, existing := range as {
		if existing.ID == a.ID {
			as[i] = a
			return r.st.Save(store.Appointments, as)
		}
	}
	return ErrNotFound
}

func (r *StoreRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	as, err := r.load()
	if err != nil {
		return err
	}
	kept := as[:0]
	for _, a := range as {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(as) {
		return ErrNotFound
	}
	return r.st.Save(store.Appointments, kept)
}

func (r *StoreRepo) List(_ context.Context) ([]*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *StoreRepo) DeleteForPatient(_ context.Context, patientID string) (int, error) {
	return r.deleteWhere(func(a *Appointment) bool { return a.PatientID == patientID })
}

func (r *StoreRepo) DeleteForDoctor(_ context.Context, doctorID string) (int, error) {
	return r.deleteWhere(func(a *Appointment) bool { return a.DoctorID == doctorID })
}

func (r *StoreRepo) deleteWhere(match func(*Appointment) bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	as, err := r.load()
	if err != nil {
		return 0, err
	}
	kept := as[:0]
	for _, a := range as {
		if !match(a) {
			kept = append(kept, a)
		}
	}
	removed := len(as) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.st.Save(store.Appointments, kept)
}
