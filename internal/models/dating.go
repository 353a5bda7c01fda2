package models

import "time"

// DatingDecision holds the viewer's like/pass signal toward a target.
// One row per ordered (actor, target) pair; a later swipe overwrites the
// earlier one.
type DatingDecision struct {
	ActorID   int64     `db:"actor_id" json:"actor_id"`
	TargetID  int64     `db:"target_id" json:"target_id"`
	Liked     bool      `db:"liked" json:"liked"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DatingMatch exists only when both sides liked each other. The pair is
// normalized so user_a_id < user_b_id, which makes the unique index catch
// both insertion orders.
type DatingMatch struct {
	ID        int64     `db:"id" json:"id"`
	UserAID   int64     `db:"user_a_id" json:"user_a_id"`
	UserBID   int64     `db:"user_b_id" json:"user_b_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (m *DatingMatch) HasUser(userID int64) bool {
	return m.UserAID == userID || m.UserBID == userID
}

func (m *DatingMatch) OtherUser(userID int64) (int64, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return 0, false
}

// NormalizePair orders a user pair for match storage and lookups.
func NormalizePair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}
