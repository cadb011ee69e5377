package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category titles are unique; categories are shared reference data and are
// never removed when the transactions pointing at them are deleted.
type Category struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
