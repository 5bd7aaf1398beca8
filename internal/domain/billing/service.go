package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo  BillRepository
	tel   *telemetry.Provider
	nowFn func() time.Time
}

func NewService(repo BillRepository, tel *telemetry.Provider) *Service {
	return &Service{repo: repo, tel: tel, nowFn: time.Now}
}

func (s *Service) record(operation string) {
	if s.tel != nil {
		s.tel.RecordOperation(store.Bills, operation)
	}
}

func (s *Service) validate(b *Bill) error {
	if b.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if b.Total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	if b.Received < 0 {
		return fmt.Errorf("received must not be negative")
	}
	if b.Date == "" {
		b.Date = s.nowFn().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, b.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, b *Bill) error {
	if err := s.validate(b); err != nil {
		return err
	}
	b.ID = uuid.NewString()
	if err := s.repo.Create(ctx, b); err != nil {
		return err
	}
	s.record("create")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Bill, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Bill) error {
	if err := s.validate(b); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return err
	}
	s.record("update")
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record("delete")
	return nil
}

func (s *Service) List(ctx context.Context) ([]*Bill, error) {
	s.record("list")
	return s.repo.List(ctx)
}

// LatestPerPatient folds the date-sorted bills into one row per patient,
// keeping each patient's most recent bill. Rows come back ordered by that
// bill's date.
func (s *Service) LatestPerPatient(ctx context.Context) ([]Row, error) {
	bs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bs, func(i, j int) bool {
		return bs[i].Date < bs[j].Date
	})
	latest := make(map[string]*Bill)
	for _, b := range bs {
		latest[b.PatientID] = b
	}

	rows := make([]Row, 0, len(latest))
	for _, b := range latest {
		rows = append(rows, NewRow(b))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows, nil
}

// HistoryForPatient returns a patient's bills, most recent first.
func (s *Service) HistoryForPatient(ctx context.Context, patientID string) ([]Row, error) {
	bs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0)
	for _, b := range bs {
		if b.PatientID == patientID {
			rows = append(rows, NewRow(b))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date > rows[j].Date
	})
	return rows, nil
}

// Revenue sums every bill's total, regardless of how much was received.
func (s *Service) Revenue(ctx context.Context) (float64, error) {
	bs, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, b := range bs {
		sum += b.Total
	}
	return sum, nil
}
