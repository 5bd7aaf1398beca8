// Package reports generates per-patient PDF summaries. The metadata row is
// a durable record; the PDF bytes live in the session-scoped artifact store,
// so a download link outlives the file it points to.
package reports

// Report is the durable metadata row for a generated PDF.
type Report struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Date      string `json:"date"`
	FileName  string `json:"filename"`
	Locator   string `json:"locator"`
}
