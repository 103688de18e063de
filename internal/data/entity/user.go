package entity

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleEditor UserRole = "EDITOR"
	RoleUser   UserRole = "USER"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleUser:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive    UserStatus = "ACTIVE"
	StatusBanned    UserStatus = "BANNED"
	StatusSuspended UserStatus = "SUSPENDED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusBanned, StatusSuspended:
		return true
	}
	return false
}

type User struct {
	Base
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password"`
	Name            string     `db:"name"`
	Bio             string     `db:"bio"`
	AvatarURL       *string    `db:"avatar_url"`
	Role            UserRole   `db:"role"`
	Status          UserStatus `db:"status"`
	EmailVerifiedAt *time.Time `db:"email_verified_at"`
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// UserActivity holds per-user content counters.
type UserActivity struct {
	Posts    int64
	Comments int64
	Likes    int64
}
