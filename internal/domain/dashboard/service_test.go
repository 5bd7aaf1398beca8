package dashboard

import (
	"context"
	"testing"

	"github.com/devstack-vibes/clinic-api/internal/domain/billing"
	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/domain/scheduling"
	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

type fakeRoster struct {
	patients []*registry.Patient
	doctors  []*registry.Doctor
}

func (f *fakeRoster) ListPatients(context.Context) ([]*registry.Patient, error) {
	return f.patients, nil
}

func (f *fakeRoster) ListDoctors(context.Context) ([]*registry.Doctor, error) {
	return f.doctors, nil
}

type fakeAppointments struct {
	all   []*scheduling.Appointment
	today []*scheduling.Appointment
}

func (f *fakeAppointments) List(context.Context) ([]*scheduling.Appointment, error) {
	return f.all, nil
}

func (f *fakeAppointments) TodaySchedule(context.Context) ([]*scheduling.Appointment, error) {
	return f.today, nil
}

type fakeBills struct {
	bills []*billing.Bill
}

func (f *fakeBills) List(context.Context) ([]*billing.Bill, error) {
	return f.bills, nil
}

func (f *fakeBills) Revenue(context.Context) (float64, error) {
	var sum float64
	for _, b := range f.bills {
		sum += b.Total
	}
	return sum, nil
}

func TestStats(t *testing.T) {
	roster := &fakeRoster{
		patients: []*registry.Patient{{ID: "p1", Name: "Jane Doe"}, {ID: "p2", Name: "Ali Raza"}},
		doctors:  []*registry.Doctor{{ID: "d1", Name: "Dr. Khan", Specialization: "Cardiology"}},
	}
	appts := &fakeAppointments{
		all: []*scheduling.Appointment{
			{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2024-03-01", Time: "10:30"},
			{ID: "a2", PatientID: "p2", DoctorID: "d1", Date: "2024-03-02", Time: "09:00"},
			{ID: "a3", PatientID: "p1", DoctorID: "d1", Date: "2024-03-05", Time: "11:00"},
		},
		today: []*scheduling.Appointment{
			{ID: "a2", PatientID: "p2", DoctorID: "d1", Date: "2024-03-02", Time: "09:00"},
		},
	}
	bills := &fakeBills{bills: []*billing.Bill{
		{ID: "b1", PatientID: "p1", Total: 600, Received: 200},
		{ID: "b2", PatientID: "p2", Total: 400, Received: 400},
	}}

	tel := telemetry.NewProvider("test")
	svc := NewService(roster, appts, bills, tel)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Patients != 2 || stats.Doctors != 1 {
		t.Errorf("counts = %d patients, %d doctors", stats.Patients, stats.Doctors)
	}
	if stats.Revenue != 1000 {
		t.Errorf("revenue = %v, want 1000", stats.Revenue)
	}
	if stats.TodayCount != 1 {
		t.Errorf("todayCount = %d, want 1", stats.TodayCount)
	}

	if got := tel.CollectionSize(store.Appointments); got != 3 {
		t.Errorf("appointments gauge = %d, want 3", got)
	}
	if got := tel.CollectionSize(store.Bills); got != 2 {
		t.Errorf("bills gauge = %d, want 2", got)
	}
}

func TestTodayJoinsNames(t *testing.T) {
	roster := &fakeRoster{
		patients: []*registry.Patient{{ID: "p1", Name: "Jane Doe"}},
		doctors:  []*registry.Doctor{{ID: "d1", Name: "Dr. Khan", Specialization: "Cardiology"}},
	}
	appts := &fakeAppointments{
		today: []*scheduling.Appointment{
			{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2024-03-02", Time: "09:00"},
			{ID: "a2", PatientID: "gone", DoctorID: "gone", Date: "2024-03-02", Time: "10:15"},
		},
	}
	svc := NewService(roster, appts, &fakeBills{}, nil)

	rows, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].PatientName != "Jane Doe" || rows[0].DoctorName != "Dr. Khan" || rows[0].Specialization != "Cardiology" {
		t.Errorf("joined row = %+v", rows[0])
	}
	// Rows with dangling references still show up, names left blank.
	if rows[1].PatientName != "" || rows[1].DoctorName != "" || rows[1].Time != "10:15" {
		t.Errorf("dangling row = %+v", rows[1])
	}
}

func TestTodayEmptySchedule(t *testing.T) {
	svc := NewService(&fakeRoster{}, &fakeAppointments{}, &fakeBills{}, nil)

	rows, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}
