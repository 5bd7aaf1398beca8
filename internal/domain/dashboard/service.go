// Package dashboard composes the landing-page view: headline counts, total
// revenue, and today's schedule joined with patient and doctor names.
package dashboard

import (
	"context"

	"github.com/devstack-vibes/clinic-api/internal/domain/billing"
	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/domain/scheduling"
	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

// Stats is the headline block at the top of the dashboard.
type Stats struct {
	Patients   int     `json:"patients"`
	Doctors    int     `json:"doctors"`
	Revenue    float64 `json:"revenue"`
	TodayCount int     `json:"todayCount"`
}

// TodayRow is one row of today's schedule, joined with names. A dangling
// reference renders as an empty name rather than an error.
type TodayRow struct {
	Time           string `json:"time"`
	PatientName    string `json:"patientName"`
	DoctorName     string `json:"doctorName"`
	Specialization string `json:"spec"`
}

type RosterSource interface {
	ListPatients(ctx context.Context) ([]*registry.Patient, error)
	ListDoctors(ctx context.Context) ([]*registry.Doctor, error)
}

type AppointmentSource interface {
	List(ctx context.Context) ([]*scheduling.Appointment, error)
	TodaySchedule(ctx context.Context) ([]*scheduling.Appointment, error)
}

type BillSource interface {
	List(ctx context.Context) ([]*billing.Bill, error)
	Revenue(ctx context.Context) (float64, error)
}

type Service struct {
	roster       RosterSource
	appointments AppointmentSource
	bills        BillSource
	tel          *telemetry.Provider
}

func NewService(roster RosterSource, appointments AppointmentSource,
	bills BillSource, tel *telemetry.Provider) *Service {

	return &Service{
		roster:       roster,
		appointments: appointments,
		bills:        bills,
		tel:          tel,
	}
}

// Stats computes the headline numbers and refreshes the per-collection
// size gauges as a side effect.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	ps, err := s.roster.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := s.roster.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}
	as, err := s.appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	bs, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.bills.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.appointments.TodaySchedule(ctx)
	if err != nil {
		return nil, err
	}

	if s.tel != nil {
		s.tel.SetCollectionSize(store.Patients, int64(len(ps)))
		s.tel.SetCollectionSize(store.Doctors, int64(len(ds)))
		s.tel.SetCollectionSize(store.Appointments, int64(len(as)))
		s.tel.SetCollectionSize(store.Bills, int64(len(bs)))
	}

	return &Stats{
		Patients:   len(ps),
		Doctors:    len(ds),
		Revenue:    revenue,
		TodayCount: len(today),
	}, nil
}

// Today returns today's appointments joined with patient and doctor names,
// ordered by time of day.
func (s *Service) Today(ctx context.Context) ([]TodayRow, error) {
	today, err := s.appointments.TodaySchedule(ctx)
	if err != nil {
		return nil, err
	}
	ps, err := s.roster.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := s.roster.ListDoctors(ctx)
	if err != nil {
		return nil, err
	}

	patients := make(map[string]*registry.Patient, len(ps))
	for _, p := range ps {
		patients[p.ID] = p
	}
	doctors := make(map[string]*registry.Doctor, len(ds))
	for _, d := range ds {
		doctors[d.ID] = d
	}

	rows := make([]TodayRow, 0, len(today))
	for _, a := range today {
		row := TodayRow{Time: a.Time}
		if p, ok := patients[a.PatientID]; ok {
			row.PatientName = p.Name
		}
		if d, ok := doctors[a.DoctorID]; ok {
			row.DoctorName = d.Name
			row.Specialization = d.Specialization
		}
		rows = append(rows, row)
	}
	return rows, nil
}
