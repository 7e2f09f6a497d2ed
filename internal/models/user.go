package models

import (
	"time"
)

// AdminUser is an administrator account. Accounts are provisioned outside the
// application and only read by it.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     *string   `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the public part of an AdminUser carried by a session
type Identity struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

// Identity returns the public identity of the user
func (u *AdminUser) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, FullName: u.FullName}
}
