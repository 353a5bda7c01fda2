package handlers

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/relationship"
	"social-service/internal/repositories"
)

// RelationshipHandler exposes the one derivation every page consumes. Each
// call fetches a fresh snapshot and classifies it; nothing is cached or
// mutated here.
type RelationshipHandler struct {
	friends repositories.FriendRepository
	groups  repositories.GroupRepository
	dating  repositories.DatingRepository
	users   repositories.UserRepository
}

func NewRelationshipHandler(
	friends repositories.FriendRepository,
	groups repositories.GroupRepository,
	dating repositories.DatingRepository,
	users repositories.UserRepository,
) *RelationshipHandler {
	return &RelationshipHandler{friends: friends, groups: groups, dating: dating, users: users}
}

// Resolve handles GET /relationships/:id?group_id=N.
func (h *RelationshipHandler) Resolve(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	targetID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()

	var groupID int64
	if raw := c.Query("group_id"); raw != "" {
		groupID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, apperrors.Invalid("invalid group_id"))
			return
		}
	}

	snap, targetPublic, err := h.snapshot(ctx, viewerID, targetID, groupID)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := relationship.Resolve(viewerID, targetID, snap, targetPublic)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, res)
}

// snapshot gathers the records relevant to the pair. A target that no
// longer exists yields an empty snapshot and a private default, not an
// error.
func (h *RelationshipHandler) snapshot(ctx context.Context, viewerID, targetID, groupID int64) (relationship.Snapshot, bool, error) {
	snap := relationship.Snapshot{}

	requests, err := h.friends.ListRequests(ctx, viewerID)
	if err != nil {
		return snap, false, err
	}
	snap.Requests = requests

	friendships, err := h.friends.ListFriendships(ctx, viewerID)
	if err != nil {
		return snap, false, err
	}
	snap.Friendships = friendships

	if groupID != 0 {
		membership, err := h.groups.GetMembership(ctx, groupID, viewerID)
		if err != nil {
			return snap, false, err
		}
		snap.Membership = membership
	}

	decisions, err := h.dating.ListDecisionsBetween(ctx, viewerID, targetID)
	if err != nil {
		return snap, false, err
	}
	snap.Decisions = decisions

	matches, err := h.dating.ListMatches(ctx, viewerID)
	if err != nil {
		return snap, false, err
	}
	snap.Matches = matches

	targetPublic := false
	if target, err := h.users.GetByID(ctx, targetID); err == nil {
		targetPublic = target.IsPublic()
	} else if !apperrors.IsNotFound(err) {
		return snap, false, err
	}

	return snap, targetPublic, nil
}
