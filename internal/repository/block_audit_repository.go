package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anandkanishkZ/pds/internal/model"
)

// BlockAuditRepository defines the append-only audit trail operations.
// Rows are never updated; Create is the only write.
type BlockAuditRepository interface {
	Create(ctx context.Context, audit *model.BlockAudit) error
	// ListForUser returns the user's audit rows newest first, each with the
	// acting administrator's display identity joined in. Actor is nil when
	// the admin row no longer exists.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BlockAuditEntry, error)
}

type blockAuditRepository struct {
	db *gorm.DB
}

// NewBlockAuditRepository builds a GORM-backed repository.
func NewBlockAuditRepository(db *gorm.DB) BlockAuditRepository {
	return &blockAuditRepository{db: db}
}

func (r *blockAuditRepository) Create(ctx context.Context, audit *model.BlockAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

// auditActorRow is the flat scan target for the audit + actor join.
type auditActorRow struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Action               model.AuditAction
	Reason               string
	PreviousBlockedUntil *time.Time
	NewBlockedUntil      *time.Time
	ActingUserID         uuid.UUID
	CreatedAt            time.Time
	ActorName            *string
	ActorEmail           *string
	ActorRole            *model.Role
}

func (r *blockAuditRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.BlockAuditEntry, error) {
	var rows []auditActorRow
	err := r.db.WithContext(ctx).
		Table("block_audits").
		Select("block_audits.id, block_audits.user_id, block_audits.action, block_audits.reason, "+
			"block_audits.previous_blocked_until, block_audits.new_blocked_until, "+
			"block_audits.acting_user_id, block_audits.created_at, "+
			"users.name AS actor_name, users.email AS actor_email, users.role AS actor_role").
		Joins("LEFT JOIN users ON users.id = block_audits.acting_user_id").
		Where("block_audits.user_id = ?", userID).
		Order("block_audits.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]model.BlockAuditEntry, 0, len(rows))
	for _, row := range rows {
		entry := model.BlockAuditEntry{
			BlockAudit: model.BlockAudit{
				ID:                   row.ID,
				UserID:               row.UserID,
				Action:               row.Action,
				Reason:               row.Reason,
				PreviousBlockedUntil: row.PreviousBlockedUntil,
				NewBlockedUntil:      row.NewBlockedUntil,
				ActingUserID:         row.ActingUserID,
				CreatedAt:            row.CreatedAt,
			},
		}
		if row.ActorName != nil && row.ActorEmail != nil && row.ActorRole != nil {
			entry.Actor = &model.AuditActor{
				ID:    row.ActingUserID,
				Name:  *row.ActorName,
				Email: *row.ActorEmail,
				Role:  *row.ActorRole,
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
