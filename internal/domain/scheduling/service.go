package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Service struct {
	repo  AppointmentRepository
	tel   *telemetry.Provider
	nowFn func() time.Time
}

func NewService(repo AppointmentRepository, tel *telemetry.Provider) *Service {
	return &Service{repo: repo, tel: tel, nowFn: time.Now}
}

func (s *Service) record(operation string) {
	if s.tel != nil {
		s.tel.RecordOperation(store.Appointments, operation)
	}
}

func validate(a *Appointment) error {
	if a.PatientID == "" {
		return fmt.Errorf("patientId is required")
	}
	if a.DoctorID == "" {
		return fmt.Errorf("doctorId is required")
	}
	if _, err := time.Parse(dateLayout, a.Date); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, a.Time); err != nil {
		return fmt.Errorf("time must be HH:MM")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	a.ID = uuid.NewString()
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.record("create")
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if err := validate(a); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, a); err != nil {
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

func (s *Service) List(ctx context.Context) ([]*Appointment, error) {
	s.record("list")
	return s.repo.List(ctx)
}

// LatestPerPatient folds the chronologically sorted appointments into one
// row per patient, keeping each patient's most recent record. Rows come
// back ordered by that record's date and time.
func (s *Service) LatestPerPatient(ctx context.Context) ([]*Appointment, error) {
	as, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(as, func(i, j int) bool {
		return as[i].SortKey() < as[j].SortKey()
	})
	latest := make(map[string]*Appointment)
	for _, a := range as {
		latest[a.PatientID] = a
	}

	rows := make([]*Appointment, 0, len(latest))
	for _, a := range latest {
		rows = append(rows, a)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortKey() < rows[j].SortKey()
	})
	return rows, nil
}

// TodaySchedule returns appointments dated today in the server's local
// time, ordered by time of day.
func (s *Service) TodaySchedule(ctx context.Context) ([]*Appointment, error) {
	as, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.nowFn().Format(dateLayout)
	rows := make([]*Appointment, 0)
	for _, a := range as {
		if a.Date == today {
			rows = append(rows, a)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time < rows[j].Time
	})
	return rows, nil
}

// HistoryForPatient returns a patient's appointments, most recent first.
func (s *Service) HistoryForPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	as, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]*Appointment, 0)
	for _, a := range as {
		if a.PatientID == patientID {
			rows = append(rows, a)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortKey() > rows[j].SortKey()
	})
	return rows, nil
}
