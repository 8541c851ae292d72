package domain

import "time"

// Company scopes users and tickets. Companies are created externally and
// never mutated by this service.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
