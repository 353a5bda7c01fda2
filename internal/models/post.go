package models

import "time"

// Post is a wall post: written by author_id on wall_owner_id's wall.
type Post struct {
	ID          int64     `db:"id" json:"id"`
	AuthorID    int64     `db:"author_id" json:"author_id"`
	WallOwnerID int64     `db:"wall_owner_id" json:"wall_owner_id"`
	Body        string    `db:"body" json:"body"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
