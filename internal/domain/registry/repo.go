package registry

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Patient, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Doctor, error)
}

// AppointmentCascade deletes appointment records tied to a removed patient
// or doctor. Implemented by the scheduling repository.
type AppointmentCascade interface {
	DeleteForPatient(ctx context.Context, patientID string) (int, error)
	DeleteForDoctor(ctx context.Context, doctorID string) (int, error)
}

// BillCascade deletes bill records tied to a removed patient. Implemented
// by the billing repository. Doctor removal leaves bills untouched, and
// report rows are never cascaded.
type BillCascade interface {
	DeleteForPatient(ctx context.Context, patientID string) (int, error)
}
