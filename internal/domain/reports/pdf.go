package reports

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/devstack-vibes/clinic-api/internal/domain/billing"
	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/domain/scheduling"
)

const (
	maxAppointmentLines = 8
	maxBillLines        = 10
)

// buildPDF renders the patient summary: a header with the patient's
// details, their most recent appointments and their most recent bills.
func buildPDF(p *registry.Patient, doctors map[string]*registry.Doctor,
	appts []*scheduling.Appointment, bills []billing.Row) ([]byte, error) {

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	y := 14.0
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(14, y, "Clinic Report")
	y += 8

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(14, y, tr(fmt.Sprintf("Patient: %s  |  Token: %s", p.Name, orDash(p.Token))))
	y += 6
	age := "-"
	if p.Age > 0 {
		age = strconv.Itoa(p.Age)
	}
	pdf.Text(14, y, tr(fmt.Sprintf("Age: %s  |  Gender: %s  |  Contact: %s",
		age, orDash(p.Gender), orDash(p.Contact))))
	y += 10

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Text(14, y, "Recent Appointments")
	y += 6
	pdf.SetFont("Helvetica", "", 11)
	if len(appts) == 0 {
		pdf.Text(14, y, "No appointments.")
		y += 6
	} else {
		for i, a := range appts {
			if i == maxAppointmentLines {
				break
			}
			name, spec := "", ""
			if d, ok := doctors[a.DoctorID]; ok {
				name, spec = d.Name, d.Specialization
			}
			pdf.Text(14, y, tr(fmt.Sprintf("%s %s  —  %s (%s)", a.Date, a.Time, name, spec)))
			y += 6
		}
	}
	y += 4

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Text(14, y, "Recent Bills")
	y += 6
	pdf.SetFont("Helvetica", "", 11)
	if len(bills) == 0 {
		pdf.Text(14, y, "No bills.")
	} else {
		for i, b := range bills {
			if i == maxBillLines {
				break
			}
			pdf.Text(14, y, tr(fmt.Sprintf("%s  —  Total: %s  Received: %s  Remaining: %s",
				b.Date, amount(b.Total), amount(b.Received), amount(b.Remaining))))
			y += 6
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
