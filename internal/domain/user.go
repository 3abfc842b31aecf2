package domain

import "time"

// User is the domain model for an authenticated person. Role drives booking
// policy; AccountKind drives administrative capability over rooms and users.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	AccountKind  AccountKind
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds an elevated account.
func (u *User) IsAdmin() bool {
	return u.AccountKind == AccountKindAdmin
}
