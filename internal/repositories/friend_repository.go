package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"social-service/internal/apperrors"
	"social-service/internal/logger"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, fromUserID, toUserID int64) (*models.FriendRequest, error)
	GetIncomingRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error)
	AcceptRequest(ctx context.Context, requestID, userID int64) error
	RejectRequest(ctx context.Context, requestID, userID int64) error
	ListFriends(ctx context.Context, userID int64) ([]int64, error)
	ListRequests(ctx context.Context, involving int64) ([]models.FriendRequest, error)
	ListFriendships(ctx context.Context, involving int64) ([]models.Friendship, error)
	HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error)
	AreFriends(ctx context.Context, userID, otherID int64) (bool, error)
	DeleteFriendship(ctx context.Context, userID, friendID int64) error
}

type friendRepository struct {
	db        *sqlx.DB
	publisher rabbitmq.Publisher
}

func NewFriendRepository(db *sqlx.DB, publisher rabbitmq.Publisher) FriendRepository {
	return &friendRepository{db: db, publisher: publisher}
}

func (r *friendRepository) CreateRequest(ctx context.Context, fromUserID, toUserID int64) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO friend_requests (from_user_id, to_user_id, status)
VALUES ($1, $2, 'pending')
RETURNING id, from_user_id, to_user_id, status, created_at
`, fromUserID, toUserID).StructScan(&req)
	if err != nil {
		// the partial unique index catches simultaneous sends from both
		// sides; the pair is already in the requested state
		if apperrors.IsConflict(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict, "pending friend request already exists")
		}
		return nil, err
	}

	r.logPublish(ctx, "friend.request.created", map[string]any{
		"request_id":   req.ID,
		"from_user_id": req.FromUserID,
		"to_user_id":   req.ToUserID,
		"created_at":   req.CreatedAt,
	})

	return &req, nil
}

func (r *friendRepository) GetIncomingRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `
SELECT id, from_user_id, to_user_id, status, created_at
FROM friend_requests
WHERE to_user_id=$1 AND status='pending'
ORDER BY created_at DESC
`, userID)
	return reqs, err
}

// AcceptRequest flips a pending request to accepted and inserts both
// friendship rows in one transaction. Friendship inserts are ON CONFLICT DO
// NOTHING, so a retry after a partial failure converges instead of erroring.
func (r *friendRepository) AcceptRequest(ctx context.Context, requestID, userID int64) error {
	var eventPayload map[string]any
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var req models.FriendRequest
		if err := tx.GetContext(ctx, &req, `SELECT id, from_user_id, to_user_id, status, created_at FROM friend_requests WHERE id=$1`, requestID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("friend request not found")
			}
			return err
		}
		if req.ToUserID != userID {
			return apperrors.Forbidden("only the recipient can accept a friend request")
		}
		switch req.Status {
		case models.RequestStatusAccepted:
			// retrying an accept is idempotent
			return nil
		case models.RequestStatusRejected:
			// rejection is final; accepting it would create a
			// friendship the recipient already declined
			return apperrors.Conflict("friend request already rejected")
		}

		acceptedAt := time.Now().UTC()

		if _, err := tx.ExecContext(ctx, `UPDATE friend_requests SET status='accepted' WHERE id=$1`, requestID); err != nil {
			return err
		}

		if err := insertFriendship(ctx, tx, req.FromUserID, req.ToUserID); err != nil {
			return err
		}
		if err := insertFriendship(ctx, tx, req.ToUserID, req.FromUserID); err != nil {
			return err
		}

		eventPayload = map[string]any{
			"user_id":     req.FromUserID,
			"friend_id":   req.ToUserID,
			"accepted_at": acceptedAt,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if eventPayload != nil {
		r.logPublish(ctx, "friendship.created", eventPayload)
	}

	return nil
}

func (r *friendRepository) RejectRequest(ctx context.Context, requestID, userID int64) error {
	var toUserID int64
	if err := r.db.GetContext(ctx, &toUserID, `SELECT to_user_id FROM friend_requests WHERE id=$1`, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("friend request not found")
		}
		return err
	}
	if toUserID != userID {
		return apperrors.Forbidden("only the recipient can reject a friend request")
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE friend_requests SET status='rejected'
WHERE id=$1 AND to_user_id=$2 AND status='pending'
`, requestID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return apperrors.NotFound("no pending friend request to reject")
	}
	return nil
}

func (r *friendRepository) ListFriends(ctx context.Context, userID int64) ([]int64, error) {
	var friends []int64
	err := r.db.SelectContext(ctx, &friends, `
SELECT friend_id
FROM friendships
WHERE user_id=$1
ORDER BY friend_id
`, userID)
	return friends, err
}

// ListRequests returns every request where the given user is either side.
// This is the snapshot read the relationship resolver consumes.
func (r *friendRepository) ListRequests(ctx context.Context, involving int64) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := r.db.SelectContext(ctx, &reqs, `
SELECT id, from_user_id, to_user_id, status, created_at
FROM friend_requests
WHERE from_user_id=$1 OR to_user_id=$1
ORDER BY created_at DESC
`, involving)
	return reqs, err
}

func (r *friendRepository) ListFriendships(ctx context.Context, involving int64) ([]models.Friendship, error) {
	var friendships []models.Friendship
	err := r.db.SelectContext(ctx, &friendships, `
SELECT id, user_id, friend_id, created_at
FROM friendships
WHERE user_id=$1
ORDER BY friend_id
`, involving)
	return friendships, err
}

func (r *friendRepository) HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM friend_requests
WHERE ((from_user_id=$1 AND to_user_id=$2) OR (from_user_id=$2 AND to_user_id=$1))
AND status='pending'
)
`, fromUserID, toUserID)
	return exists, err
}

func (r *friendRepository) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(
SELECT 1 FROM friendships WHERE user_id=$1 AND friend_id=$2
)
`, userID, otherID)
	return exists, err
}

func (r *friendRepository) DeleteFriendship(ctx context.Context, userID, friendID int64) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM friendships
WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1)
`, userID, friendID)
	if err == nil {
		r.logPublish(ctx, "friendship.removed", map[string]any{
			"user_id":   userID,
			"friend_id": friendID,
		})
	}
	return err
}

func insertFriendship(ctx context.Context, tx *sqlx.Tx, userID, friendID int64) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO friendships (user_id, friend_id) VALUES ($1, $2)
ON CONFLICT (user_id, friend_id) DO NOTHING
`, userID, friendID)
	return err
}

func (r *friendRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
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

func (r *friendRepository) logPublish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, eventType, payload); err != nil {
		observability.IncAMQPPublishError()
		logger.Warn("failed to publish event", "event", eventType, "error", err)
	}
}
