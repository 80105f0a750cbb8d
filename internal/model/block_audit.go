package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction identifies the kind of blocked-state change a BlockAudit
// records.
type AuditAction string

// Audit actions.
const (
	AuditActionBlock   AuditAction = "block"
	AuditActionUnblock AuditAction = "unblock"
	AuditActionExtend  AuditAction = "extend"
)

// BlockAudit is an immutable record of one administrative action that
// changed a user's blocked state. Rows are only ever appended, in the same
// transaction as the user row update, and are removed solely by the user
// deletion cascade. ActingUserID is a weak reference: the admin's display
// identity is joined at read time and may no longer resolve.
type BlockAudit struct {
	ID                   uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	UserID               uuid.UUID   `json:"userId" gorm:"type:char(36);not null;index"`
	Action               AuditAction `json:"action" gorm:"type:varchar(20);not null"`
	Reason               string      `json:"reason,omitempty" gorm:"type:text"`
	PreviousBlockedUntil *time.Time  `json:"previousBlockedUntil"`
	NewBlockedUntil      *time.Time  `json:"newBlockedUntil"`
	ActingUserID         uuid.UUID   `json:"actingUserId" gorm:"type:char(36);index"`
	CreatedAt            time.Time   `json:"createdAt"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (a *BlockAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AuditActor is the acting administrator's display identity at read time.
type AuditActor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// BlockAuditEntry pairs an audit row with its resolved actor. Actor is nil
// when the acting administrator has since been deleted.
type BlockAuditEntry struct {
	BlockAudit
	Actor *AuditActor `json:"actor"`
}
