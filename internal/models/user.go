package models

import (
	"time"

	"github.com/gocql/gocql"
)

type User struct {
	ID                gocql.UUID `json:"user_id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	Password          string     `json:"-"`
	VerificationToken string     `json:"-"`
	IsVerified        bool       `json:"is_verified"`
	Role              string     `json:"role,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// IsAdmin indique si l'utilisateur a le rôle administrateur
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// UserActivity trace les actions utilisateur (login, etc.)
type UserActivity struct {
	UserID    gocql.UUID `json:"user_id"`
	Action    string     `json:"action"`
	CreatedAt time.Time  `json:"created_at"`
}
