package reports

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id string) (*Report, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Report, error)
}
