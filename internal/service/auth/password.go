package auth

import (
	"crypto/sha256"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(password string) (string, error)

	// Matches has to take about the same time for any hash and password
	Matches(hash string, password string) bool
}

// Bcrypt hashes sha256 of the password: bcrypt itself accepts 72 bytes at most.
// Zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], cost)
	return string(hash), err
}

func (b Bcrypt) Matches(hash string, password string) bool {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hash), sum[:]) == nil
}

// Compared against when login is unknown, so the answer takes as long as for a wrong password
var decoyHash = sync.OnceValue(func() string {
	hash, _ := Bcrypt{}.Hash("decoy")
	return hash
})
