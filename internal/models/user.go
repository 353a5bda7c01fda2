package models

import "time"

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// User is the profile mirror maintained by this service. Credentials and
// sessions live with the external identity provider; rows here are keyed by
// the IdP's user id.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	AvatarURL   string    `db:"avatar_url" json:"avatar_url"`
	Bio         string    `db:"bio" json:"bio"`
	Visibility  string    `db:"visibility" json:"visibility"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (u *User) IsPublic() bool {
	return u.Visibility == VisibilityPublic
}

// PublicView strips fields a non-friend viewer of a private profile may not see.
func (u *User) PublicView() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"visibility": u.Visibility,
	}
}
