package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Check is a stored result of a number validation
type Check struct {
	ID     uuid.UUID
	UserID uuid.UUID

	// Number as user sent it and the same number without separators
	Number     string
	Normalized string

	Valid  bool
	Digits int
	Reason string

	CheckedAt time.Time
}

// CheckStats aggregates user checks
type CheckStats struct {
	Total   int64
	Valid   int64
	Invalid int64

	// Valid / Total rounded to 4 places, zero if there are no checks
	ValidShare decimal.Decimal
}
