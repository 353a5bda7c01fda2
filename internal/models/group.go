package models

import "time"

const (
	GroupRoleMember = "member"
	GroupRoleAdmin  = "admin"
)

type Group struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CreatorID   int64     `db:"creator_id" json:"creator_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type GroupMembership struct {
	GroupID  int64     `db:"group_id" json:"group_id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}
