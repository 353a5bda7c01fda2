package handlers

import (
	"fmt"
	nethttp "net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"social-service/internal/apperrors"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

type UserHandler struct {
	users     repositories.UserRepository
	friends   repositories.FriendRepository
	avatarDir string
}

func NewUserHandler(users repositories.UserRepository, friends repositories.FriendRepository, avatarDir string) *UserHandler {
	return &UserHandler{users: users, friends: friends, avatarDir: avatarDir}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}
	username := c.GetString("username")

	ctx := c.Request.Context()
	user, err := h.users.EnsureProfile(ctx, viewerID, username)
	if err != nil {
		respondError(c, err)
		return
	}

	friends, err := h.friends.ListFriends(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if friends == nil {
		friends = []int64{}
	}

	incoming, err := h.friends.GetIncomingRequests(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	incomingResp := make([]gin.H, 0, len(incoming))
	for _, req := range incoming {
		incomingResp = append(incomingResp, gin.H{
			"id":           req.ID,
			"from_user_id": req.FromUserID,
			"status":       req.Status,
			"created_at":   req.CreatedAt,
		})
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"id":                user.ID,
		"username":          user.Username,
		"display_name":      user.DisplayName,
		"avatar_url":        user.AvatarURL,
		"bio":               user.Bio,
		"visibility":        user.Visibility,
		"friends":           friends,
		"incoming_requests": incomingResp,
	})
}

// GetUserByID returns a full profile to friends and to everyone when the
// profile is public; private profiles expose a stripped view otherwise.
func (h *UserHandler) GetUserByID(c *gin.Context) {
	targetID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	if user.IsPublic() {
		c.JSON(nethttp.StatusOK, user)
		return
	}

	viewerID, _ := viewerFromContext(c)
	if viewerID == targetID {
		c.JSON(nethttp.StatusOK, user)
		return
	}
	if viewerID != 0 {
		areFriends, err := h.friends.AreFriends(ctx, viewerID, targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		if areFriends {
			c.JSON(nethttp.StatusOK, user)
			return
		}
	}

	c.JSON(nethttp.StatusOK, user.PublicView())
}

type updateProfileBody struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	Visibility  string `json:"visibility"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var body updateProfileBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}
	if body.Visibility == "" {
		body.Visibility = models.VisibilityPublic
	}
	if body.Visibility != models.VisibilityPublic && body.Visibility != models.VisibilityPrivate {
		respondError(c, apperrors.Invalid("visibility must be public or private"))
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), viewerID, body.DisplayName, body.Bio, body.Visibility); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, user)
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Invalid("missing file"))
		return
	}

	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	userDir := filepath.Join(h.avatarDir, strconv.FormatInt(viewerID, 10))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		respondError(c, err)
		return
	}

	dstPath := filepath.Join(userDir, filename)
	if err := c.SaveUploadedFile(file, dstPath); err != nil {
		respondError(c, err)
		return
	}

	avatarURL := fmt.Sprintf("/uploads/avatars/%d/%s", viewerID, filename)
	if err := h.users.SetAvatarURL(c.Request.Context(), viewerID, avatarURL); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"avatar_url": avatarURL})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	avatarURL, err := h.users.GetAvatarURL(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if avatarURL != "" {
		const prefix = "/uploads/avatars/"
		if strings.HasPrefix(avatarURL, prefix) {
			relativePath := strings.TrimPrefix(avatarURL, prefix)
			_ = os.Remove(filepath.Join(h.avatarDir, relativePath))
		}
	}

	if err := h.users.ClearAvatarURL(c.Request.Context(), viewerID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}
