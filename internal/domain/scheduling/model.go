// Package scheduling manages appointment records and the derived views the
// frontend renders: the latest appointment per patient, today's schedule,
// and a patient's visit history.
package scheduling

// Appointment links a patient and a doctor at a date and time. Date is
// "YYYY-MM-DD" and Time is 24h "HH:MM", so concatenating them yields a
// lexicographically sortable chronological key.
type Appointment struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	DoctorID  string `json:"doctorId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// SortKey is the chronological ordering key for an appointment.
func (a *Appointment) SortKey() string {
	return a.Date + a.Time
}
