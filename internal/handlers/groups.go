package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/metrics"
	"social-service/internal/relationship"
	"social-service/internal/repositories"
)

type GroupHandler struct {
	groups repositories.GroupRepository
}

func NewGroupHandler(groups repositories.GroupRepository) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var body createGroupBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), body.Title, body.Description, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusCreated, group)
}

func (h *GroupHandler) Get(c *gin.Context) {
	groupID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	group, err := h.groups.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, group)
}

// Join is idempotent: a second join for the same (user, group) changes
// nothing and still reports membership.
func (h *GroupHandler) Join(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		metrics.IncGroupJoin(metrics.StatusFailed)
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	groupID, err := pathID(c, "id")
	if err != nil {
		metrics.IncGroupJoin(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.groups.GetGroup(ctx, groupID); err != nil {
		metrics.IncGroupJoin(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	if err := h.groups.Join(ctx, groupID, viewerID); err != nil {
		metrics.IncGroupJoin(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	metrics.IncGroupJoin(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"status": string(relationship.GroupMember)})
}

func (h *GroupHandler) Leave(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	groupID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.groups.Leave(c.Request.Context(), groupID, viewerID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}

func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	members, err := h.groups.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"members": members})
}

// Membership reports the viewer's own membership state for a group.
func (h *GroupHandler) Membership(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	groupID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	membership, err := h.groups.GetMembership(c.Request.Context(), groupID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{
		"status":     relationship.GroupStatusOf(membership),
		"membership": membership,
	})
}
