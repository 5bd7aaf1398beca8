package registry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

type Service struct {
	patients     PatientRepository
	doctors      DoctorRepository
	appointments AppointmentCascade
	bills        BillCascade
	tel          *telemetry.Provider
	logger       zerolog.Logger
}

func NewService(patients PatientRepository, doctors DoctorRepository,
	appointments AppointmentCascade, bills BillCascade,
	tel *telemetry.Provider, logger zerolog.Logger) *Service {

	return &Service{
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		bills:        bills,
		tel:          tel,
		logger:       logger,
	}
}

func (s *Service) record(collection, operation string) {
	if s.tel != nil {
		s.tel.RecordOperation(collection, operation)
	}
}

// -- Patients --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Token == "" {
		return fmt.Errorf("token is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	p.ID = uuid.NewString()
	if err := s.patients.Create(ctx, p); err != nil {
		return err
	}
	s.record(store.Patients, "create")
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id string) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Token == "" {
		return fmt.Errorf("token is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 {
		return fmt.Errorf("age must not be negative")
	}
	if err := s.patients.Update(ctx, p); err != nil {
		return err
	}
	s.record(store.Patients, "update")
	return nil
}

// DeletePatient removes the patient together with every appointment and
// bill that references them.
func (s *Service) DeletePatient(ctx context.Context, id string) error {
	if err := s.patients.Delete(ctx, id); err != nil {
		return err
	}

	appts, err := s.appointments.DeleteForPatient(ctx, id)
	if err != nil {
		return fmt.Errorf("cascading appointments for patient %s: %w", id, err)
	}
	bills, err := s.bills.DeleteForPatient(ctx, id)
	if err != nil {
		return fmt.Errorf("cascading bills for patient %s: %w", id, err)
	}

	s.record(store.Patients, "delete")
	s.logger.Info().
		Str("patient_id", id).
		Int("appointments_removed", appts).
		Int("bills_removed", bills).
		Msg("patient deleted")
	return nil
}

func (s *Service) ListPatients(ctx context.Context) ([]*Patient, error) {
	s.record(store.Patients, "list")
	return s.patients.List(ctx)
}

// PatientOptions returns selector entries for every patient, labelled
// "Name (TOKEN)".
func (s *Service) PatientOptions(ctx context.Context) ([]Option, error) {
	ps, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(ps))
	for _, p := range ps {
		opts = append(opts, Option{ID: p.ID, Label: p.OptionLabel()})
	}
	return opts, nil
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	d.ID = uuid.NewString()
	if err := s.doctors.Create(ctx, d); err != nil {
		return err
	}
	s.record(store.Doctors, "create")
	return nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Specialization == "" {
		return fmt.Errorf("specialization is required")
	}
	if err := s.doctors.Update(ctx, d); err != nil {
		return err
	}
	s.record(store.Doctors, "update")
	return nil
}

// DeleteDoctor removes the doctor and every appointment that references
// them. Bills reference patients only and are left alone.
func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}

	appts, err := s.appointments.DeleteForDoctor(ctx, id)
	if err != nil {
		return fmt.Errorf("cascading appointments for doctor %s: %w", id, err)
	}

	s.record(store.Doctors, "delete")
	s.logger.Info().
		Str("doctor_id", id).
		Int("appointments_removed", appts).
		Msg("doctor deleted")
	return nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*Doctor, error) {
	s.record(store.Doctors, "list")
	return s.doctors.List(ctx)
}

// DoctorOptions returns selector entries for every doctor, labelled with
// name and specialization.
func (s *Service) DoctorOptions(ctx context.Context) ([]Option, error) {
	ds, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(ds))
	for _, d := range ds {
		opts = append(opts, Option{ID: d.ID, Label: d.OptionLabel()})
	}
	return opts, nil
}
