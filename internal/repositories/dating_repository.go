package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-service/internal/apperrors"
	"social-service/internal/logger"
	"social-service/internal/models"
	"social-service/internal/observability"
	"social-service/internal/rabbitmq"
)

// DecisionResult describes the effect of recording a like or pass.
type DecisionResult struct {
	// Matched reports that the decision is a like and the target already
	// liked the actor back.
	Matched bool
	// Changed reports that the stored decision was created or flipped;
	// repeating the same decision leaves it false.
	Changed bool
	// Counted reports that a changed like is visible in the target's
	// liked-me view. It stays false when the target already passed on
	// the actor.
	Counted bool
}

type DatingRepository interface {
	// PutDecision records a like/pass and reports whether it completed a
	// mutual like. Match creation is idempotent and order-independent.
	PutDecision(ctx context.Context, actorID, targetID int64, liked bool) (DecisionResult, error)
	ListDecisionsBetween(ctx context.Context, userID, otherID int64) ([]models.DatingDecision, error)
	ListMatches(ctx context.Context, userID int64) ([]models.DatingMatch, error)
	ListLikedMe(ctx context.Context, userID int64, limit, offset int) ([]models.DatingDecision, error)
	CountLikedMe(ctx context.Context, userID int64) (int64, error)
}

type datingRepository struct {
	db        *sqlx.DB
	publisher rabbitmq.Publisher
}

func NewDatingRepository(db *sqlx.DB, publisher rabbitmq.Publisher) DatingRepository {
	return &datingRepository{db: db, publisher: publisher}
}

func (r *datingRepository) PutDecision(ctx context.Context, actorID, targetID int64, liked bool) (DecisionResult, error) {
	var res DecisionResult
	var matchID int64
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		// the WHERE clause makes a repeated identical decision a no-op,
		// so RowsAffected distinguishes new/flipped from repeated
		upsert, err := tx.ExecContext(ctx, `
INSERT INTO dating_decisions (actor_id, target_id, liked)
VALUES ($1, $2, $3)
ON CONFLICT (actor_id, target_id) DO UPDATE SET liked=EXCLUDED.liked, updated_at=NOW()
WHERE dating_decisions.liked <> EXCLUDED.liked
`, actorID, targetID, liked)
		if err != nil {
			return err
		}
		rows, err := upsert.RowsAffected()
		if err != nil {
			return err
		}
		res.Changed = rows > 0

		if !liked {
			return nil
		}

		// reverse decision check inside the same tx so both insertion
		// orders converge on exactly one match row
		var reverseLiked bool
		err = tx.GetContext(ctx, &reverseLiked, `
SELECT liked FROM dating_decisions WHERE actor_id=$1 AND target_id=$2
`, targetID, actorID)
		switch {
		case apperrors.IsNotFound(err):
			res.Counted = res.Changed
			return nil
		case err != nil:
			return err
		case !reverseLiked:
			// target already passed on the actor; the like never
			// surfaces in their liked-me view
			return nil
		}
		res.Counted = res.Changed

		a, b := models.NormalizePair(actorID, targetID)
		row := tx.QueryRowxContext(ctx, `
INSERT INTO dating_matches (user_a_id, user_b_id)
VALUES ($1, $2)
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, a, b)
		if err := row.Scan(&matchID); err != nil {
			// conflict means the match already exists; still matched
			if !apperrors.IsNotFound(err) {
				return err
			}
			matchID = 0
		}
		res.Matched = true
		return nil
	})
	if err != nil {
		return DecisionResult{}, err
	}

	if res.Matched && matchID != 0 {
		a, b := models.NormalizePair(actorID, targetID)
		r.logPublish(ctx, "dating.match.created", map[string]any{
			"match_id":  matchID,
			"user_a_id": a,
			"user_b_id": b,
		})
	}

	return res, nil
}

func (r *datingRepository) ListDecisionsBetween(ctx context.Context, userID, otherID int64) ([]models.DatingDecision, error) {
	var decisions []models.DatingDecision
	err := r.db.SelectContext(ctx, &decisions, `
SELECT actor_id, target_id, liked, created_at, updated_at
FROM dating_decisions
WHERE (actor_id=$1 AND target_id=$2) OR (actor_id=$2 AND target_id=$1)
`, userID, otherID)
	return decisions, err
}

func (r *datingRepository) ListMatches(ctx context.Context, userID int64) ([]models.DatingMatch, error) {
	var matches []models.DatingMatch
	err := r.db.SelectContext(ctx, &matches, `
SELECT id, user_a_id, user_b_id, created_at
FROM dating_matches
WHERE user_a_id=$1 OR user_b_id=$1
ORDER BY created_at DESC
`, userID)
	return matches, err
}

// ListLikedMe returns users who liked the given user, newest first. Users
// the recipient already passed on are excluded; they should not resurface
// in the "who liked me" list.
func (r *datingRepository) ListLikedMe(ctx context.Context, userID int64, limit, offset int) ([]models.DatingDecision, error) {
	var decisions []models.DatingDecision
	err := r.db.SelectContext(ctx, &decisions, `
SELECT d.actor_id, d.target_id, d.liked, d.created_at, d.updated_at
FROM dating_decisions d
WHERE d.target_id=$1 AND d.liked=true
AND NOT EXISTS (
	SELECT 1 FROM dating_decisions d2
	WHERE d2.actor_id=$1 AND d2.target_id=d.actor_id AND d2.liked=false
)
ORDER BY d.updated_at DESC, d.actor_id DESC
LIMIT $2 OFFSET $3
`, userID, limit, offset)
	return decisions, err
}

func (r *datingRepository) CountLikedMe(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*)
FROM dating_decisions d
WHERE d.target_id=$1 AND d.liked=true
AND NOT EXISTS (
	SELECT 1 FROM dating_decisions d2
	WHERE d2.actor_id=$1 AND d2.target_id=d.actor_id AND d2.liked=false
)
`, userID)
	return count, err
}

func (r *datingRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
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

func (r *datingRepository) logPublish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, eventType, payload); err != nil {
		observability.IncAMQPPublishError()
		logger.Warn("failed to publish event", "event", eventType, "error", err)
	}
}
