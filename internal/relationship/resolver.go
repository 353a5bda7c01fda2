// Package relationship derives the viewer-facing relationship state between
// two identities from a snapshot of raw records. It is the single place this
// classification happens; every handler that renders a pair consumes it
// instead of re-deriving state from its own queries.
package relationship

import (
	"social-service/internal/apperrors"
	"social-service/internal/models"
)

type FriendStatus string

const (
	FriendSelf            FriendStatus = "self"
	Friends               FriendStatus = "friends"
	FriendRequestSent     FriendStatus = "request_sent"
	FriendRequestReceived FriendStatus = "request_received"
	NotFriends            FriendStatus = "not_friends"
)

type GroupStatus string

const (
	GroupNotMember GroupStatus = "not_member"
	GroupMember    GroupStatus = "member"
	GroupAdmin     GroupStatus = "admin"
)

type DatingStatus string

const (
	DatingNoSignal DatingStatus = "no_signal"
	DatingLiked    DatingStatus = "liked"
	DatingPassed   DatingStatus = "passed"
	DatingMatched  DatingStatus = "matched"
)

// Snapshot is the set of records relevant to a (viewer, target) pair, fetched
// once per resolution. Absent data is a valid snapshot: a deleted target
// simply resolves to NotFriends/NoSignal.
type Snapshot struct {
	Requests    []models.FriendRequest
	Friendships []models.Friendship
	Membership  *models.GroupMembership
	Decisions   []models.DatingDecision
	Matches     []models.DatingMatch
}

// Resolution is the derived state for a pair plus the actions the viewer may
// take from it.
type Resolution struct {
	FriendStatus FriendStatus `json:"friend_status"`
	GroupStatus  GroupStatus  `json:"group_status"`
	DatingStatus DatingStatus `json:"dating_status"`
	Actions      []Action     `json:"actions"`
}

// Resolve classifies viewer vs target. targetPublic feeds the message
// permission; it must come from the target's stored profile, not the client.
//
// Friend status precedence, first match wins:
//  1. viewer == target            -> self
//  2. friendship exists           -> friends
//  3. pending viewer->target      -> request_sent
//  4. pending target->viewer      -> request_received
//  5. otherwise                   -> not_friends
func Resolve(viewerID, targetID int64, snap Snapshot, targetPublic bool) (Resolution, error) {
	if viewerID == 0 {
		return Resolution{}, apperrors.ErrUnauthenticated
	}

	fs := friendStatus(viewerID, targetID, snap)
	res := Resolution{
		FriendStatus: fs,
		GroupStatus:  GroupStatusOf(snap.Membership),
		DatingStatus: datingStatus(viewerID, targetID, snap),
		Actions:      ActionsFor(fs, targetPublic),
	}
	return res, nil
}

func friendStatus(viewerID, targetID int64, snap Snapshot) FriendStatus {
	if targetID == viewerID {
		return FriendSelf
	}

	for _, f := range snap.Friendships {
		if involvesPair(f.UserID, f.FriendID, viewerID, targetID) {
			return Friends
		}
	}

	for _, r := range snap.Requests {
		if r.Status != models.RequestStatusPending {
			continue
		}
		if r.FromUserID == viewerID && r.ToUserID == targetID {
			return FriendRequestSent
		}
	}
	for _, r := range snap.Requests {
		if r.Status != models.RequestStatusPending {
			continue
		}
		if r.FromUserID == targetID && r.ToUserID == viewerID {
			return FriendRequestReceived
		}
	}

	return NotFriends
}

// GroupStatusOf classifies a membership record; nil means not a member.
func GroupStatusOf(m *models.GroupMembership) GroupStatus {
	if m == nil {
		return GroupNotMember
	}
	if m.Role == models.GroupRoleAdmin {
		return GroupAdmin
	}
	return GroupMember
}

// datingStatus is viewer-sided: a match outranks everything, then the
// viewer's own signal. A like from the target alone stays no_signal; the
// target only appears in the viewer's "who liked me" list.
func datingStatus(viewerID, targetID int64, snap Snapshot) DatingStatus {
	for _, m := range snap.Matches {
		if involvesPair(m.UserAID, m.UserBID, viewerID, targetID) {
			return DatingMatched
		}
	}
	for _, d := range snap.Decisions {
		if d.ActorID == viewerID && d.TargetID == targetID {
			if d.Liked {
				return DatingLiked
			}
			return DatingPassed
		}
	}
	return DatingNoSignal
}

func involvesPair(a, b, x, y int64) bool {
	return (a == x && b == y) || (a == y && b == x)
}
