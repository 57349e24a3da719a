package domain

import "time"

// Restaurant is a tenant. The slug partitions every other record in the
// system.
type Restaurant struct {
	ID          string
	Slug        string
	Name        string
	Description *string
	Address     *string
	Phone       *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
