// Package registry manages the clinic's patient and doctor rosters. It also
// owns the cascade contract: removing a patient or doctor takes their
// dependent appointment and bill records with them.
package registry

import "fmt"

// Patient is a registered clinic patient. Token is the clinic's own visit
// token, distinct from the opaque record id.
type Patient struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Name    string `json:"name"`
	Age     int    `json:"age,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Contact string `json:"contact,omitempty"`
	Address string `json:"address,omitempty"`
}

// Doctor is a practicing doctor. Availability is free text, e.g.
// "Mon-Fri 9am-1pm".
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Contact        string `json:"contact,omitempty"`
	Specialization string `json:"spec"`
	Availability   string `json:"avail,omitempty"`
}

// Option is a selector entry for pickers in the frontend.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OptionLabel builds the picker label for a patient.
func (p *Patient) OptionLabel() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Token)
}

// OptionLabel builds the picker label for a doctor.
func (d *Doctor) OptionLabel() string {
	return fmt.Sprintf("%s — %s", d.Name, d.Specialization)
}
