package scheduling

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Appointment, error)
	DeleteForPatient(ctx context.Context, patientID string) (int, error)
	DeleteForDoctor(ctx context.Context, doctorID string) (int, error)
}
