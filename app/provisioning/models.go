package provisioning

import (
	"github.com/staffroomhq/staffroom-api/pkg/gotrue"
)

// RoleGuru is the role every account created through this flow gets.
// There is deliberately no way for the caller to request another role.
const RoleGuru = "guru"

// ProfilesTable is the data service table profiles are inserted into.
const ProfilesTable = "profiles"

// CreateAccountRequest is the inbound payload for account provisioning.
// NIP is the employee number ("nomor induk pegawai").
type CreateAccountRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	NIP          string  `json:"nip"`
	FullName     string  `json:"full_name"`
	BaseSalary   float64 `json:"base_salary"`
	HourlyRate   float64 `json:"hourly_rate"`
	PresenceRate float64 `json:"presence_rate"`
}

// Profile is a row in the profiles table. Its ID always equals the ID of the
// identity record it belongs to.
type Profile struct {
	ID           string  `json:"id"`
	NIP          string  `json:"nip"`
	FullName     string  `json:"full_name"`
	Role         string  `json:"role"`
	BaseSalary   float64 `json:"base_salary"`
	HourlyRate   float64 `json:"hourly_rate"`
	PresenceRate float64 `json:"presence_rate"`
}

// AccountCreated is the result of a successful provisioning run.
type AccountCreated struct {
	Success bool         `json:"success"`
	User    *gotrue.User `json:"user"`
	Profile *Profile     `json:"profile"`
}
