package models

import (
	"fmt"
	"time"
)

type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"passwordHash"`
	CreatedAt    time.Time  `json:"createdAt"`
	Services     []int64    `json:"services"`
	LastLogin    *time.Time `json:"lastLogin"`
}

func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("%w: user id %d", ErrInvalidRecord, u.ID)
	}
	if u.Email == "" || u.PasswordHash == "" {
		return fmt.Errorf("%w: user %d missing credentials", ErrInvalidRecord, u.ID)
	}
	return nil
}

// Session returns the redacted copy of u kept as the current session.
func (u User) Session() Session {
	return Session{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Services:  u.Services,
		LastLogin: u.LastLogin,
	}
}

// Session is the logged-in user's profile without the password hash.
type Session struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	Services  []int64    `json:"services"`
	LastLogin *time.Time `json:"lastLogin"`
}

func (s Session) Validate() error {
	if s.ID <= 0 || s.Email == "" {
		return fmt.Errorf("%w: session", ErrInvalidRecord)
	}
	return nil
}
