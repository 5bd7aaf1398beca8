package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devstack-vibes/clinic-api/internal/domain/billing"
	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/domain/scheduling"
	"github.com/devstack-vibes/clinic-api/internal/platform/artifacts"
	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

const dateLayout = "2006-01-02"

// PatientSource supplies the roster data a report needs.
type PatientSource interface {
	GetPatient(ctx context.Context, id string) (*registry.Patient, error)
	ListDoctors(ctx context.Context) ([]*registry.Doctor, error)
}

// AppointmentSource supplies a patient's visit history, most recent first.
type AppointmentSource interface {
	HistoryForPatient(ctx context.Context, patientID string) ([]*scheduling.Appointment, error)
}

// BillSource supplies a patient's billing history, most recent first.
type BillSource interface {
	HistoryForPatient(ctx context.Context, patientID string) ([]billing.Row, error)
}

type Service struct {
	repo         ReportRepository
	patients     PatientSource
	appointments AppointmentSource
	bills        BillSource
	files        *artifacts.Store
	tel          *telemetry.Provider
	logger       zerolog.Logger
	nowFn        func() time.Time
}

func NewService(repo ReportRepository, patients PatientSource,
	appointments AppointmentSource, bills BillSource, files *artifacts.Store,
	tel *telemetry.Provider, logger zerolog.Logger) *Service {

	return &Service{
		repo:         repo,
		patients:     patients,
		appointments: appointments,
		bills:        bills,
		files:        files,
		tel:          tel,
		logger:       logger,
		nowFn:        time.Now,
	}
}

func (s *Service) record(operation string) {
	if s.tel != nil {
		s.tel.RecordOperation(store.Reports, operation)
	}
}

// Generate builds the PDF for a patient, stores the bytes in the artifact
// store and persists the metadata row.
func (s *Service) Generate(ctx context.Context, patientID string) (*Report, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patientId is required")
	}

	p, err := s.patients.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	ds, err := s.patients.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	doctors := make(map[string]*registry.Doctor, len(ds))
	for _, d := range ds {
		doctors[d.ID] = d
	}
	appts, err := s.appointments.HistoryForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	bills, err := s.bills.HistoryForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	content, err := buildPDF(p, doctors, appts, bills)
	if err != nil {
		return nil, err
	}

	now := s.nowFn()
	fileName := reportFileName(p.Name, now)
	artifact, err := s.files.Put(fileName, "application/pdf", content)
	if err != nil {
		return nil, fmt.Errorf("storing report artifact: %w", err)
	}

	report := &Report{
		ID:        uuid.NewString(),
		PatientID: patientID,
		Date:      now.Format(dateLayout),
		FileName:  fileName,
		Locator:   artifact.Locator,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		s.files.Delete(artifact.Locator)
		return nil, err
	}

	s.record("create")
	s.logger.Info().
		Str("report_id", report.ID).
		Str("patient_id", patientID).
		Int64("size", artifact.Size).
		Msg("report generated")
	return report, nil
}

// Download returns the PDF bytes behind a report. A metadata row whose
// artifact did not survive a restart yields artifacts.ErrArtifactGone.
func (s *Service) Download(ctx context.Context, id string) (*Report, []byte, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	content, _, err := s.files.Get(report.Locator)
	if err != nil {
		return nil, nil, err
	}
	return report, content, nil
}

// List returns report rows, most recently generated first.
func (s *Service) List(ctx context.Context) ([]*Report, error) {
	rs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	s.record("list")
	return rs, nil
}

// Delete removes the metadata row and whatever artifact bytes still exist.
func (s *Service) Delete(ctx context.Context, id string) error {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.files.Delete(report.Locator)
	s.record("delete")
	return nil
}

// reportFileName mirrors the download name shown to the user:
// report_<name with spaces collapsed to underscores>_<unix millis>.pdf
func reportFileName(patientName string, now time.Time) string {
	name := strings.Join(strings.Fields(patientName), "_")
	if name == "" {
		name = "patient"
	}
	return fmt.Sprintf("report_%s_%d.pdf", name, now.UnixMilli())
}
