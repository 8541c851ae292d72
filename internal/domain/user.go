package domain

import "time"

// UserRole enumerates the roles a ticket can be assigned by.
type UserRole string

const (
	RoleAccountant         UserRole = "accountant"
	RoleCorporateSecretary UserRole = "corporateSecretary"
	RoleDirector           UserRole = "director"
)

// User is a company member eligible for ticket assignment. Users are
// created externally; this service only reads them. CreatedAt is the
// tie-breaker for assignee selection.
type User struct {
	ID        string
	Name      string
	Role      UserRole
	CompanyID string
	CreatedAt time.Time
	UpdatedAt time.Time
}
