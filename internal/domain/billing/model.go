// Package billing manages bill records and their derived views: the latest
// bill per patient, a patient's billing history, and total revenue.
package billing

// Bill records one billing event for a patient. Amounts are plain numbers
// in the clinic's currency. Remaining is never stored; it is always derived
// as Total minus Received.
type Bill struct {
	ID        string  `json:"id"`
	PatientID string  `json:"patientId"`
	Total     float64 `json:"total"`
	Received  float64 `json:"received"`
	Method    string  `json:"method,omitempty"`
	Date      string  `json:"date"`
}

// Remaining is the outstanding balance on the bill.
func (b *Bill) Remaining() float64 {
	return b.Total - b.Received
}

// Row is a bill plus its derived balance, as rendered in list views.
type Row struct {
	*Bill
	Remaining float64 `json:"remaining"`
}

// NewRow wraps a bill with its computed balance.
func NewRow(b *Bill) Row {
	return Row{Bill: b, Remaining: b.Remaining()}
}
