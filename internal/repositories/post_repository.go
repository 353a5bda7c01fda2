package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/apperrors"
	"social-service/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, authorID, wallOwnerID int64, body string) (*models.Post, error)
	GetByID(ctx context.Context, postID int64) (*models.Post, error)
	ListWall(ctx context.Context, wallOwnerID int64, limit, offset int) ([]models.Post, error)
	Delete(ctx context.Context, postID int64) error
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, authorID, wallOwnerID int64, body string) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO posts (author_id, wall_owner_id, body)
VALUES ($1, $2, $3)
RETURNING id, author_id, wall_owner_id, body, created_at
`, authorID, wallOwnerID, body).StructScan(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post, `
SELECT id, author_id, wall_owner_id, body, created_at
FROM posts WHERE id=$1
`, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListWall(ctx context.Context, wallOwnerID int64, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts, `
SELECT id, author_id, wall_owner_id, body, created_at
FROM posts
WHERE wall_owner_id=$1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`, wallOwnerID, limit, offset)
	return posts, err
}

func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, postID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("post not found")
	}
	return nil
}
