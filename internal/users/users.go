// Package users is the account record behind a session.
package users

import (
	"context"
	"errors"
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

type User struct {
	ID          string
	Username    string
	DisplayName string
	Role        string
	CreatedAt   time.Time
}

// Name is what the header shows.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Store is the read side the web layer needs.
type Store interface {
	ByID(ctx context.Context, id string) (*User, error)
	// Credentials returns the user and its password hash.
	Credentials(ctx context.Context, username string) (*User, string, error)
}

func ValidRole(r string) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}
