package user

import (
	"errors"
	"time"
)

// Exactly two roles exist; there is no hierarchy and no per-resource grants.
const (
	RoleAdmin  = "admin"
	RoleDokter = "dokter"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleDokter
}
