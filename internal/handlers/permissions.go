package handlers

import (
	"context"

	"social-service/internal/apperrors"
	"social-service/internal/relationship"
	"social-service/internal/repositories"
)

// interactPermission runs the resolver for a pair and reports whether the
// viewer may message the target (or post on their wall, which carries the
// same rule: friends, or a public target).
func interactPermission(
	ctx context.Context,
	friends repositories.FriendRepository,
	users repositories.UserRepository,
	viewerID, targetID int64,
) (bool, error) {
	targetPublic := false
	if target, err := users.GetByID(ctx, targetID); err == nil {
		targetPublic = target.IsPublic()
	} else if !apperrors.IsNotFound(err) {
		return false, err
	}

	friendships, err := friends.ListFriendships(ctx, viewerID)
	if err != nil {
		return false, err
	}

	res, err := relationship.Resolve(viewerID, targetID, relationship.Snapshot{Friendships: friendships}, targetPublic)
	if err != nil {
		return false, err
	}

	return relationship.CanMessage(res.FriendStatus, targetPublic), nil
}
