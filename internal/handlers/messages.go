package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/repositories"
	"social-service/internal/ws"
)

type MessageHandler struct {
	messages repositories.MessageRepository
	friends  repositories.FriendRepository
	users    repositories.UserRepository
	hub      *ws.Hub
}

func NewMessageHandler(messages repositories.MessageRepository, friends repositories.FriendRepository, users repositories.UserRepository, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, friends: friends, users: users, hub: hub}
}

type sendMessageBody struct {
	ToUserID int64  `json:"to_user_id" binding:"required"`
	Body     string `json:"body" binding:"required"`
}

// Send enforces the message permission server-side on every write; the
// client-side check in the UI is a convenience, not a boundary.
func (h *MessageHandler) Send(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}
	if body.ToUserID == viewerID {
		respondError(c, apperrors.Invalid("cannot message yourself"))
		return
	}

	ctx := c.Request.Context()
	allowed, err := interactPermission(ctx, h.friends, h.users, viewerID, body.ToUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !allowed {
		respondError(c, apperrors.Forbidden("cannot message this user"))
		return
	}

	conv, err := h.messages.EnsureConversation(ctx, viewerID, body.ToUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.messages.CreateMessage(ctx, conv.ID, viewerID, body.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.SendToUser(body.ToUserID, "message.received", msg)
	}

	c.JSON(nethttp.StatusCreated, msg)
}

// ListWithPeer returns the thread with another user, creating nothing: an
// absent conversation is an empty list, not an error.
func (h *MessageHandler) ListWithPeer(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	peerID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	convs, err := h.messages.ListConversations(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	var conversationID int64
	for _, conv := range convs {
		if (conv.UserAID == viewerID && conv.UserBID == peerID) ||
			(conv.UserAID == peerID && conv.UserBID == viewerID) {
			conversationID = conv.ID
			break
		}
	}
	if conversationID == 0 {
		c.JSON(nethttp.StatusOK, gin.H{"messages": []any{}})
		return
	}

	limit, offset := pageParams(c)
	msgs, err := h.messages.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(nethttp.StatusOK, gin.H{"messages": msgs})
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	convs, err := h.messages.ListConversations(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(convs))
	for _, conv := range convs {
		peerID := conv.UserAID
		if peerID == viewerID {
			peerID = conv.UserBID
		}
		resp = append(resp, gin.H{
			"id":         conv.ID,
			"peer_id":    peerID,
			"created_at": conv.CreatedAt,
		})
	}

	c.JSON(nethttp.StatusOK, gin.H{"conversations": resp})
}
