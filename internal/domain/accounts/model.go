// Package accounts manages the staff user roster. Users are directory
// entries only: the login gate authenticates against the configured
// credential, so no password ever reaches the record store.
package accounts

// User is a staff directory entry.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// DefaultRole is assigned when a user is created without a role.
const DefaultRole = "Receptionist"

// AdminRole is the role of the seeded administrator account.
const AdminRole = "Admin"
