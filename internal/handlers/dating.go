package handlers

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperrors"
	"social-service/internal/cache"
	"social-service/internal/metrics"
	"social-service/internal/repositories"
	"social-service/internal/ws"
)

type DatingHandler struct {
	dating repositories.DatingRepository
	cache  *cache.RedisCache
	hub    *ws.Hub
}

func NewDatingHandler(dating repositories.DatingRepository, redisCache *cache.RedisCache, hub *ws.Hub) *DatingHandler {
	return &DatingHandler{dating: dating, cache: redisCache, hub: hub}
}

type decisionBody struct {
	TargetUserID int64 `json:"target_user_id" binding:"required"`
}

func (h *DatingHandler) Like(c *gin.Context) {
	h.putDecision(c, true)
}

func (h *DatingHandler) Pass(c *gin.Context) {
	h.putDecision(c, false)
}

func (h *DatingHandler) putDecision(c *gin.Context, liked bool) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		metrics.IncDatingDecision(metrics.StatusFailed)
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	var body decisionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncDatingDecision(metrics.StatusFailed)
		respondError(c, apperrors.Invalid("invalid request body"))
		return
	}
	if body.TargetUserID == viewerID {
		metrics.IncDatingDecision(metrics.StatusFailed)
		respondError(c, apperrors.Invalid("cannot decide on yourself"))
		return
	}

	ctx := c.Request.Context()
	res, err := h.dating.PutDecision(ctx, viewerID, body.TargetUserID, liked)
	if err != nil {
		metrics.IncDatingDecision(metrics.StatusFailed)
		respondError(c, err)
		return
	}

	// the swipe changes the target's "who liked me" counter, not ours.
	// A repeated identical decision changes nothing and must leave the
	// cached counter alone; a like the target cannot see (they already
	// passed) must not bump it either.
	if h.cache != nil && res.Changed {
		if liked && res.Counted {
			h.cache.BumpLikedMeCount(ctx, body.TargetUserID, 1)
		} else {
			h.cache.InvalidateLikedMeCount(ctx, body.TargetUserID)
		}
	}

	if res.Matched && h.hub != nil {
		payload := gin.H{"user_a_id": viewerID, "user_b_id": body.TargetUserID}
		h.hub.SendToUser(viewerID, "dating.matched", payload)
		h.hub.SendToUser(body.TargetUserID, "dating.matched", payload)
	}
	if res.Matched {
		metrics.IncDatingMatch()
	}

	metrics.IncDatingDecision(metrics.StatusSuccess)
	c.JSON(nethttp.StatusOK, gin.H{"matched": res.Matched})
}

func (h *DatingHandler) ListLikedMe(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	limit, offset := pageParams(c)
	decisions, err := h.dating.ListLikedMe(c.Request.Context(), viewerID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	likers := make([]gin.H, 0, len(decisions))
	for _, d := range decisions {
		likers = append(likers, gin.H{
			"user_id":  d.ActorID,
			"liked_at": d.UpdatedAt,
		})
	}

	c.JSON(nethttp.StatusOK, gin.H{"likers": likers})
}

// CountLikedMe is cache-first: Redis counter with TTL, database on miss.
func (h *DatingHandler) CountLikedMe(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	ctx := c.Request.Context()

	if h.cache != nil {
		if count, hit, err := h.cache.GetLikedMeCount(ctx, viewerID); err == nil && hit {
			c.JSON(nethttp.StatusOK, gin.H{"count": count})
			return
		}
	}

	count, err := h.dating.CountLikedMe(ctx, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.SetLikedMeCount(ctx, viewerID, count)
	}

	c.JSON(nethttp.StatusOK, gin.H{"count": count})
}

func (h *DatingHandler) ListMatches(c *gin.Context) {
	viewerID, ok := viewerFromContext(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	matches, err := h.dating.ListMatches(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		other, _ := m.OtherUser(viewerID)
		resp = append(resp, gin.H{
			"match_id":   m.ID,
			"user_id":    other,
			"matched_at": m.CreatedAt,
		})
	}

	c.JSON(nethttp.StatusOK, gin.H{"matches": resp})
}
