package handlers

import (
	"context"
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/metrics"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
	"social-service/internal/ws"
)

type FriendHandler struct {
	friends repositories.FriendRepository
	users   repositories.UserRepository
	audit   *telemetry.AuditEmitter
	hub     *ws.Hub
}

func NewFriendHandler(friends repositories.FriendRepository, users repositories.UserRepository, audit *telemetry.AuditEmitter, hub *ws.Hub) *FriendHandler {
	return &FriendHandler{friends: friends, users: users, audit: audit, hub: hub}
}

type sendRequestBody struct {
	ToUserID int64 `json:"to_user_id" binding:"required"`
}

func (h *FriendHandler) SendRequest(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	viewerID, ok := viewerFromContext(c)
	if !ok {
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var body sendRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "invalid request payload", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}

	toUserID := body.ToUserID
	if toUserID == viewerID {
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.Invalid("cannot send request to yourself"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.GetByID(ctx, toUserID); err != nil {
		h.emitAudit(ctx, "ERROR", "target user not found", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.NotFound("target user not found"))
		return
	}

	friends, err := h.friends.AreFriends(ctx, viewerID, toUserID)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "internal error", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, err)
		return
	}
	if friends {
		h.emitAudit(ctx, "ERROR", "users are already friends", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.Conflict("users are already friends"))
		return
	}

	exists, err := h.friends.HasPendingRequest(ctx, viewerID, toUserID)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "internal error", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, err)
		return
	}
	if exists {
		h.emitAudit(ctx, "ERROR", "pending friend request already exists", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, apperrors.Conflict("pending friend request already exists"))
		return
	}

	req, err := h.friends.CreateRequest(ctx, viewerID, toUserID)
	if err != nil {
		// a concurrent duplicate lost the race to the unique index; the
		// pair is already pending, which is what the caller wanted
		if apperrors.IsConflict(err) {
			h.emitAudit(ctx, "INFO", "friend request already pending", requestID, &viewerID)
			metrics.IncFriendRequest(metrics.StatusSuccess)
			c.JSON(nethttp.StatusOK, gin.H{"status": models.RequestStatusPending})
			return
		}
		h.emitAudit(ctx, "ERROR", "internal error", requestID, &viewerID)
		metrics.IncFriendRequest(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	h.notify(toUserID, "friend_request.received", gin.H{
		"request_id":   req.ID,
		"from_user_id": req.FromUserID,
	})

	h.emitAudit(ctx, "INFO", "Friend request sent to '"+strconv.FormatInt(toUserID, 10)+"'", requestID, &viewerID)
	metrics.IncFriendRequest(metrics.StatusSuccess)
	c.JSON(nethttp.StatusCreated, req)
}

func (h *FriendHandler) ListIncoming(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	requests, err := h.friends.GetIncomingRequests(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(requests))
	for _, req := range requests {
		entry := gin.H{
			"id":           req.ID,
			"from_user_id": req.FromUserID,
			"status":       req.Status,
			"created_at":   req.CreatedAt,
		}
		// a vanished sender degrades to an entry without profile data
		if sender, err := h.users.GetByID(c.Request.Context(), req.FromUserID); err == nil {
			entry["from_username"] = sender.Username
		}
		resp = append(resp, entry)
	}

	c.JSON(nethttp.StatusOK, resp)
}

func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	h.handleDecision(c, h.friends.AcceptRequest, "accept", metrics.IncFriendAccept)
}

func (h *FriendHandler) RejectRequest(c *gin.Context) {
	h.handleDecision(c, h.friends.RejectRequest, "reject", metrics.IncFriendReject)
}

func (h *FriendHandler) handleDecision(c *gin.Context, action func(ctx context.Context, requestID, userID int64) error, verb string, inc func(string)) {
	reqID, err := pathID(c, "id")
	if err != nil {
		inc(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	requestID := requestIDFromHeader(c)
	viewerID, ok := viewerFromContext(c)
	if !ok {
		inc(metrics.StatusFailed)
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	if err := action(c.Request.Context(), reqID, viewerID); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "failed to "+verb+" friend request", requestID, &viewerID)
		inc(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	h.emitAudit(c.Request.Context(), "INFO", "friend request "+verb+"ed", requestID, &viewerID)
	inc(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"status": verb + "ed"})
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	friends, err := h.friends.ListFriends(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if friends == nil {
		friends = []int64{}
	}

	c.JSON(nethttp.StatusOK, gin.H{"friends": friends})
}

func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	friendID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.friends.DeleteFriendship(c.Request.Context(), viewerID, friendID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(nethttp.StatusNoContent)
}

func (h *FriendHandler) emitAudit(ctx context.Context, level, text, requestID string, userID *int64) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(ctx, level, text, requestID, userID)
}

func (h *FriendHandler) notify(userID int64, event string, data any) {
	if h.hub == nil {
		return
	}
	h.hub.SendToUser(userID, event, data)
}
