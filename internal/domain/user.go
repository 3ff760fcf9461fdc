package domain

import "time"

// Customer represents a rider in the system.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
}
