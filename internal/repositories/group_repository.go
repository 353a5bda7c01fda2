package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/apperrors"
	"social-service/internal/logger"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, title, description string, creatorID int64) (*models.Group, error)
	GetGroup(ctx context.Context, groupID int64) (*models.Group, error)
	// Join adds the user as a member. Joining twice is a no-op; public
	// groups have no approval step.
	Join(ctx context.Context, groupID, userID int64) error
	Leave(ctx context.Context, groupID, userID int64) error
	GetMembership(ctx context.Context, groupID, userID int64) (*models.GroupMembership, error)
	ListMembers(ctx context.Context, groupID int64) ([]models.GroupMembership, error)
}

type groupRepository struct {
	db        *sqlx.DB
	publisher rabbitmq.Publisher
}

func NewGroupRepository(db *sqlx.DB, publisher rabbitmq.Publisher) GroupRepository {
	return &groupRepository{db: db, publisher: publisher}
}

// CreateGroup inserts the group and its creator's admin membership in one
// transaction; a group without an admin never becomes visible.
func (r *groupRepository) CreateGroup(ctx context.Context, title, description string, creatorID int64) (*models.Group, error) {
	var group models.Group
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
INSERT INTO groups (title, description, creator_id)
VALUES ($1, $2, $3)
RETURNING id, title, description, creator_id, created_at
`, title, description, creatorID).StructScan(&group); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
INSERT INTO group_members (group_id, user_id, role)
VALUES ($1, $2, 'admin')
`, group.ID, creatorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logPublish(ctx, "group.created", map[string]any{
		"group_id":   group.ID,
		"creator_id": creatorID,
	})

	return &group, nil
}

func (r *groupRepository) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, `
SELECT id, title, description, creator_id, created_at
FROM groups WHERE id=$1
`, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("group not found")
		}
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) Join(ctx context.Context, groupID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO group_members (group_id, user_id, role)
VALUES ($1, $2, 'member')
ON CONFLICT (group_id, user_id) DO NOTHING
`, groupID, userID)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows > 0 {
		r.logPublish(ctx, "group.member.joined", map[string]any{
			"group_id": groupID,
			"user_id":  userID,
		})
	}
	return nil
}

func (r *groupRepository) Leave(ctx context.Context, groupID, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM group_members WHERE group_id=$1 AND user_id=$2
`, groupID, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("not a member of this group")
	}

	r.logPublish(ctx, "group.member.left", map[string]any{
		"group_id": groupID,
		"user_id":  userID,
	})
	return nil
}

// GetMembership returns nil without error when the user is not a member;
// absence is a valid state, not a failure.
func (r *groupRepository) GetMembership(ctx context.Context, groupID, userID int64) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := r.db.GetContext(ctx, &m, `
SELECT group_id, user_id, role, joined_at
FROM group_members WHERE group_id=$1 AND user_id=$2
`, groupID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *groupRepository) ListMembers(ctx context.Context, groupID int64) ([]models.GroupMembership, error) {
	var members []models.GroupMembership
	err := r.db.SelectContext(ctx, &members, `
SELECT group_id, user_id, role, joined_at
FROM group_members WHERE group_id=$1
ORDER BY joined_at
`, groupID)
	return members, err
}

func (r *groupRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *groupRepository) logPublish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, eventType, payload); err != nil {
		observability.IncAMQPPublishError()
		logger.Warn("failed to publish event", "event", eventType, "error", err)
	}
}
