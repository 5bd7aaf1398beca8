package billing

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type BillRepository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id string) (*Bill, error)
	Update(ctx context.Context, b *Bill) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Bill, error)
	DeleteForPatient(ctx context.Context, patientID string) (int, error)
}
