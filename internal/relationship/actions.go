package relationship

type Action string

const (
	ActionSendRequest  Action = "send_request"
	ActionAccept       Action = "accept"
	ActionReject       Action = "reject"
	ActionMessage      Action = "message"
	ActionRemoveFriend Action = "remove_friend"

	// ActionCancelRequest is declared for completeness but never returned:
	// the product has no path to cancel a sent request. Kept so clients that
	// enumerate actions have a stable name if it ever ships.
	ActionCancelRequest Action = "cancel_request"
)

// ActionsFor is a pure function of the derived friend status. Messaging is
// allowed between friends, or toward a public profile.
func ActionsFor(status FriendStatus, targetPublic bool) []Action {
	switch status {
	case Friends:
		return []Action{ActionMessage, ActionRemoveFriend}
	case FriendRequestSent:
		return []Action{}
	case FriendRequestReceived:
		return []Action{ActionAccept, ActionReject}
	case NotFriends:
		actions := []Action{ActionSendRequest}
		if targetPublic {
			actions = append(actions, ActionMessage)
		}
		return actions
	default: // self
		return []Action{}
	}
}

// CanMessage reports whether the viewer may open or post to a conversation
// with the target. Enforced server-side on every message write.
func CanMessage(status FriendStatus, targetPublic bool) bool {
	for _, a := range ActionsFor(status, targetPublic) {
		if a == ActionMessage {
			return true
		}
	}
	return false
}
