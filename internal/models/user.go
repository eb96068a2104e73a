package models

import (
	"time"

	"github.com/google/uuid"
)

// User owns checks and authenticates with login and password
type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash string
	RegisteredAt time.Time
}
