package domain

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNoUpdateFields     = errors.New("at least one parameter for user update info should be provided")
	ErrSuperadminDelete   = errors.New("superadmin cannot be deleted via API")
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidInput       = errors.New("invalid user input")
)

// User is a portal account as stored in the user directory.
type User struct {
	ID             string    `json:"user_id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	Roles          RoleSet   `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileUpdate carries the optional fields of a profile edit. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Name    *string
	Surname *string
	Email   *string
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Surname == nil && p.Email == nil
}

// Apply writes the set fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Surname != nil {
		u.Surname = *p.Surname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}
