package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

type MessageRepository interface {
	// EnsureConversation returns the thread for a pair, creating it if
	// absent. Both call orders land on the same row.
	EnsureConversation(ctx context.Context, userID, otherID int64) (*models.Conversation, error)
	CreateMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error)
	ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]models.Message, error)
	ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error)
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) EnsureConversation(ctx context.Context, userID, otherID int64) (*models.Conversation, error) {
	a, b := models.NormalizePair(userID, otherID)

	var conv models.Conversation
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO conversations (user_a_id, user_b_id)
VALUES ($1, $2)
ON CONFLICT (user_a_id, user_b_id) DO UPDATE SET user_a_id=EXCLUDED.user_a_id
RETURNING id, user_a_id, user_b_id, created_at
`, a, b).StructScan(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *messageRepository) CreateMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO messages (conversation_id, sender_id, body)
VALUES ($1, $2, $3)
RETURNING id, conversation_id, sender_id, body, created_at
`, conversationID, senderID, body).StructScan(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `
SELECT id, conversation_id, sender_id, body, created_at
FROM messages
WHERE conversation_id=$1
ORDER BY created_at
LIMIT $2 OFFSET $3
`, conversationID, limit, offset)
	return msgs, err
}

func (r *messageRepository) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.SelectContext(ctx, &convs, `
SELECT id, user_a_id, user_b_id, created_at
FROM conversations
WHERE user_a_id=$1 OR user_b_id=$1
ORDER BY created_at DESC
`, userID)
	return convs, err
}
