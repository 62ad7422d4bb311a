package models

import "time"

// MwIdentityKey is the request-context key under which the auth guard stores
// the authenticated Identity.
const MwIdentityKey = "identity"

// Identity is the unit of data embedded inside tokens. Immutable once loaded.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type User struct {
	ID              int64      `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

// Role rows are plain CRUD data; nothing in the service enforces them.
type Role struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ClientMeta captures per-request client attributes stored alongside
// refresh sessions for audit and anomaly detection.
type ClientMeta struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}
