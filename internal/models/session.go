package models

import (
	"time"

	"github.com/google/uuid"
)

// Token is a credential handed to a client
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Session is issued on register, login and refresh
type Session struct {
	Login   string
	Access  Token
	Refresh Token
}

// RefreshToken is the server side record of an issued refresh token.
// Only the digest is stored, the token itself is known to the client only.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Digest    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

func (t RefreshToken) Expired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}
