package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a user role. Unknown values are rejected at every boundary
// instead of being remapped.
type Role string

// Supported roles.
const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// Valid reports whether the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// Status is an account lifecycle state. Transitions are triggered by
// administrators only, never by the passage of time.
type Status string

// Supported account statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
	StatusBlocked  Status = "blocked"
)

// Valid reports whether the status is one of the supported values.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusBlocked:
		return true
	}
	return false
}

// User represents an account in the system. BlockedAt is set exactly when
// Status is blocked; the two fields are always written together in one
// transaction.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string     `json:"name" gorm:"size:255;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role       `json:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	Status       Status     `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	AdminNotes   string     `json:"adminNotes,omitempty" gorm:"type:text"`
	BlockedAt    *time.Time `json:"blockedAt,omitempty"`
	BlockedUntil *time.Time `json:"blockedUntil,omitempty"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RemainingBlockSeconds returns the number of whole seconds until
// BlockedUntil, or nil when there is no countdown to show: the block is
// indefinite, or BlockedUntil has already elapsed. An elapsed BlockedUntil
// does not unblock the account; only an explicit administrative action does.
func (u *User) RemainingBlockSeconds(now time.Time) *int64 {
	if u.BlockedUntil == nil || !u.BlockedUntil.After(now) {
		return nil
	}
	secs := int64(u.BlockedUntil.Sub(now) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &secs
}
