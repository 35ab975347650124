package models

import "time"

// User is one credential-store record. PasswordHash never leaves the
// services layer; call Sanitized before handing a record to the
// presentation layer.
type User struct {
	ID            int64
	Email         string
	PasswordHash  string
	Name          string
	Role          string
	EmailVerified bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Sanitized returns a copy of u with the password hash blanked.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	return &c
}
