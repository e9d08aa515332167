package domain

import "time"

// Project groups tasks. Tasks reference their project by ID only; the
// project carries no back-pointer collection.
type Project struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}
