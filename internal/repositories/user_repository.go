package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/apperrors"
	"social-service/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// EnsureProfile creates the profile mirror row on first sight of an
	// identity from the IdP; existing rows are left untouched.
	EnsureProfile(ctx context.Context, id int64, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, displayName, bio, visibility string) error
	GetAvatarURL(ctx context.Context, id int64) (string, error)
	SetAvatarURL(ctx context.Context, id int64, avatarURL string) error
	ClearAvatarURL(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, username, display_name, avatar_url, bio, visibility, created_at"

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id=$1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EnsureProfile(ctx context.Context, id int64, username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO users (id, username)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET username=EXCLUDED.username
RETURNING `+userColumns+`
`, id, username).StructScan(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, displayName, bio, visibility string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE users SET display_name=$2, bio=$3, visibility=$4 WHERE id=$1
`, id, displayName, bio, visibility)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) GetAvatarURL(ctx context.Context, id int64) (string, error) {
	var avatar sql.NullString
	err := r.db.GetContext(ctx, &avatar, "SELECT avatar_url FROM users WHERE id=$1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if !avatar.Valid {
		return "", nil
	}
	return avatar.String, nil
}

func (r *userRepository) SetAvatarURL(ctx context.Context, id int64, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET avatar_url=$2 WHERE id=$1", id, avatarURL)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func (r *userRepository) ClearAvatarURL(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET avatar_url='' WHERE id=$1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}
