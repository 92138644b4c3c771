package domain

import "time"

// User represents a registered writer.
type User struct {
	ID              int64
	Name            string
	Email           string
	Bio             string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasVerifiedEmail reports whether the user completed email verification.
func (u *User) HasVerifiedEmail() bool {
	return u != nil && u.EmailVerifiedAt != nil
}
