package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/repositories"
)

type PostHandler struct {
	posts   repositories.PostRepository
	friends repositories.FriendRepository
	users   repositories.UserRepository
}

func NewPostHandler(posts repositories.PostRepository, friends repositories.FriendRepository, users repositories.UserRepository) *PostHandler {
	return &PostHandler{posts: posts, friends: friends, users: users}
}

type createPostBody struct {
	Body string `json:"body" binding:"required"`
}

// CreateOnWall handles POST /users/:id/wall. Writing on someone else's wall
// requires friendship or a public wall owner; your own wall is always open.
func (h *PostHandler) CreateOnWall(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	wallOwnerID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var body createPostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}

	ctx := c.Request.Context()
	if wallOwnerID != viewerID {
		allowed, err := interactPermission(ctx, h.friends, h.users, viewerID, wallOwnerID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !allowed {
			respondError(c, apperrors.Forbidden("cannot post on this wall"))
			return
		}
	}

	post, err := h.posts.Create(ctx, viewerID, wallOwnerID, body.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusCreated, post)
}

func (h *PostHandler) ListWall(c *gin.Context) {
	wallOwnerID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	limit, offset := pageParams(c)
	posts, err := h.posts.ListWall(c.Request.Context(), wallOwnerID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"posts": posts})
}

// Delete allows the author or the wall owner to remove a post.
func (h *PostHandler) Delete(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	if post.AuthorID != viewerID && post.WallOwnerID != viewerID {
		respondError(c, apperrors.Forbidden("only the author or wall owner can delete a post"))
		return
	}

	if err := h.posts.Delete(ctx, postID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}
