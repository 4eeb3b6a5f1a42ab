package models

import (
	"time"
)

// User is a durable profile keyed by a short numeric code. The contact
// handshake is modelled with three redundant code arrays: Contacts is
// symmetric, Pending holds codes this user has sent requests to and
// Requests holds codes that have sent requests to this user. A pair of
// users is in at most one of {pending, contact, none} at a time.
type User struct {
	Code           string    `json:"code" db:"code"`
	Username       string    `json:"username" db:"username"`
	ProfilePicture string    `json:"profilePicture" db:"profile_picture"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Contacts       []string  `json:"contacts" db:"contacts"`
	Pending        []string  `json:"pending" db:"pending"`
	Requests       []string  `json:"requests" db:"requests"`
	Groups         []string  `json:"groups" db:"groups"`
	IsOnline       bool      `json:"isOnline" db:"is_online"`
	LastSeen       time.Time `json:"lastSeen" db:"last_seen"`
	LastUsedAt     time.Time `json:"lastUsedAt" db:"last_used_at"`
	DeviceID       *string   `json:"deviceId,omitempty" db:"device_id"`
	IsDeviceLocked bool      `json:"isDeviceLocked" db:"is_device_locked"`
	IsAdmin        bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// HasPassword reports whether the profile requires a password on restore.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

type CreateUserRequest struct {
	Username       string  `json:"username"`
	ProfilePicture string  `json:"profilePicture,omitempty"`
	DeviceID       *string `json:"deviceId,omitempty"`
	IsDeviceLocked bool    `json:"isDeviceLocked,omitempty"`
}

type UserUpdateRequest struct {
	Username       *string `json:"username,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type ContactRequest struct {
	ContactCode string `json:"contactCode"`
}

type AcceptRequest struct {
	RequesterCode string `json:"requesterCode"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

type RestoreRequest struct {
	Password string `json:"password,omitempty"`
}

// UserPresence is the durable best-effort mirror of live reachability.
type UserPresence struct {
	UserCode string    `json:"userCode"`
	IsOnline bool      `json:"isOnline"`
	LastSeen time.Time `json:"lastSeen"`
}

// AdminUserView is the trimmed projection returned by the admin user list.
type AdminUserView struct {
	Code           string `json:"code"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
	IsOnline       bool   `json:"isOnline"`
}
