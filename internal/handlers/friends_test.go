package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/middleware"
	"social-service/internal/mocks"
	"social-service/internal/models"
)

func authAs(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ViewerIDKey, userID)
		c.Set("username", "tester")
		c.Next()
	}
}

func setupFriendsRouter(handler *FriendHandler, viewerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if viewerID != 0 {
		r.Use(authAs(viewerID))
	}
	r.POST("/friends/requests", handler.SendRequest)
	r.GET("/friends/requests/incoming", handler.ListIncoming)
	r.POST("/friends/requests/:id/accept", handler.AcceptRequest)
	r.POST("/friends/requests/:id/reject", handler.RejectRequest)
	r.GET("/friends", handler.ListFriends)
	r.DELETE("/friends/:id", handler.RemoveFriend)
	return r
}

func TestSendRequest_EmptyBodyReturnsBadRequest(t *testing.T) {
	handler := NewFriendHandler(new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendRequest_NoViewerReturnsUnauthorized(t *testing.T) {
	handler := NewFriendHandler(new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 0)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendRequest_SelfReturnsBadRequest(t *testing.T) {
	handler := NewFriendHandler(new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendRequest_Created(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)
	friends.On("AreFriends", mock.Anything, int64(1), int64(2)).Return(false, nil)
	friends.On("HasPendingRequest", mock.Anything, int64(1), int64(2)).Return(false, nil)
	friends.On("CreateRequest", mock.Anything, int64(1), int64(2)).
		Return(&models.FriendRequest{ID: 10, FromUserID: 1, ToUserID: 2, Status: models.RequestStatusPending}, nil)

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	friends.AssertExpectations(t)
}

func TestSendRequest_DuplicatePendingIsConflict(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)
	friends.On("AreFriends", mock.Anything, int64(1), int64(2)).Return(false, nil)
	friends.On("HasPendingRequest", mock.Anything, int64(1), int64(2)).Return(true, nil)

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	friends.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendRequest_RaceLostToUniqueIndexIsBenign(t *testing.T) {
	// Both tabs check, both pass, one insert loses to the partial unique
	// index. The loser must see success, not an error toast.
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)
	friends.On("AreFriends", mock.Anything, int64(1), int64(2)).Return(false, nil)
	friends.On("HasPendingRequest", mock.Anything, int64(1), int64(2)).Return(false, nil)
	friends.On("CreateRequest", mock.Anything, int64(1), int64(2)).
		Return(nil, apperrors.Conflict("pending friend request already exists"))

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), models.RequestStatusPending)
}

func TestSendRequest_AlreadyFriendsIsConflict(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Username: "bob"}, nil)
	friends.On("AreFriends", mock.Anything, int64(1), int64(2)).Return(true, nil)

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendRequest_TargetGoneIsNotFound(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.NotFound("user not found"))

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests", bytes.NewBufferString(`{"to_user_id":99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptRequest_InvalidIDReturnsBadRequest(t *testing.T) {
	handler := NewFriendHandler(new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/abc/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptRequest_Success(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	friends.On("AcceptRequest", mock.Anything, int64(10), int64(2)).Return(nil)

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 2)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/10/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	friends.AssertExpectations(t)
}

func TestAcceptRequest_AlreadyRejectedIsConflict(t *testing.T) {
	// A rejected request is final. Accepting it must not quietly report
	// success while no friendship exists.
	friends := new(mocks.MockFriendRepository)
	friends.On("AcceptRequest", mock.Anything, int64(10), int64(2)).
		Return(apperrors.Conflict("friend request already rejected"))

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 2)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/10/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "already rejected")
}

func TestAcceptRequest_WrongRecipientIsForbidden(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	friends.On("AcceptRequest", mock.Anything, int64(10), int64(3)).
		Return(apperrors.Forbidden("only the recipient can accept a friend request"))

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 3)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/10/accept", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRejectRequest_MissingIsNotFound(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	friends.On("RejectRequest", mock.Anything, int64(44), int64(2)).
		Return(apperrors.NotFound("friend request not found"))

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 2)

	req := httptest.NewRequest(http.MethodPost, "/friends/requests/44/reject", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListIncoming_SenderGoneStillListed(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	friends.On("GetIncomingRequests", mock.Anything, int64(2)).Return([]models.FriendRequest{
		{ID: 5, FromUserID: 9, ToUserID: 2, Status: models.RequestStatusPending},
	}, nil)
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, apperrors.NotFound("user not found"))

	handler := NewFriendHandler(friends, users, nil, nil)
	router := setupFriendsRouter(handler, 2)

	req := httptest.NewRequest(http.MethodGet, "/friends/requests/incoming", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"from_user_id":9`)
}

func TestListFriends_EmptyIsNotNull(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	friends.On("ListFriends", mock.Anything, int64(1)).Return(nil, nil)

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"friends":[]`)
}

func TestRemoveFriend(t *testing.T) {
	friends := new(mocks.MockFriendRepository)
	friends.On("DeleteFriendship", mock.Anything, int64(1), int64(2)).Return(nil)

	handler := NewFriendHandler(friends, new(mocks.MockUserRepository), nil, nil)
	router := setupFriendsRouter(handler, 1)

	req := httptest.NewRequest(http.MethodDelete, "/friends/2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	friends.AssertExpectations(t)
}
