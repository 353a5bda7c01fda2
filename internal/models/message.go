package models

import "time"

// Conversation is a direct-message thread between two users, pair-normalized
// like DatingMatch so each pair has at most one thread.
type Conversation struct {
	ID        int64     `db:"id" json:"id"`
	UserAID   int64     `db:"user_a_id" json:"user_a_id"`
	UserBID   int64     `db:"user_b_id" json:"user_b_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Body           string    `db:"body" json:"body"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
