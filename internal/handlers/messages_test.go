package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/mocks"
	"social-service/internal/models"
)

func setupMessagesRouter(handler *MessageHandler, viewerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if viewerID != 0 {
		r.Use(authAs(viewerID))
	}
	r.POST("/messages", handler.Send)
	r.GET("/conversations", handler.ListConversations)
	r.GET("/conversations/:id/messages", handler.ListWithPeer)
	return r
}

func TestSendMessage_FriendAllowed(t *testing.T) {
	messages := new(mocks.MockMessageRepository)
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Visibility: models.VisibilityPrivate}, nil)
	friends.On("ListFriendships", mock.Anything, int64(1)).Return([]models.Friendship{
		{UserID: 1, FriendID: 2},
	}, nil)
	messages.On("EnsureConversation", mock.Anything, int64(1), int64(2)).
		Return(&models.Conversation{ID: 6, UserAID: 1, UserBID: 2}, nil)
	messages.On("CreateMessage", mock.Anything, int64(6), int64(1), "hey").
		Return(&models.Message{ID: 30, ConversationID: 6, SenderID: 1, Body: "hey"}, nil)

	handler := NewMessageHandler(messages, friends, users, nil)
	router := setupMessagesRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"to_user_id":2,"body":"hey"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	messages.AssertExpectations(t)
}

func TestSendMessage_StrangerToPrivateProfileForbidden(t *testing.T) {
	messages := new(mocks.MockMessageRepository)
	friends := new(mocks.MockFriendRepository)
	users := new(mocks.MockUserRepository)
	users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Visibility: models.VisibilityPrivate}, nil)
	friends.On("ListFriendships", mock.Anything, int64(1)).Return(nil, nil)

	handler := NewMessageHandler(messages, friends, users, nil)
	router := setupMessagesRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"to_user_id":2,"body":"hey"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	messages.AssertNotCalled(t, "EnsureConversation", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessage_SelfIsBadRequest(t *testing.T) {
	handler := NewMessageHandler(new(mocks.MockMessageRepository), new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil)
	router := setupMessagesRouter(handler, 1)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"to_user_id":1,"body":"hey"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWithPeer_NoConversationIsEmptyList(t *testing.T) {
	messages := new(mocks.MockMessageRepository)
	messages.On("ListConversations", mock.Anything, int64(1)).Return(nil, nil)

	handler := NewMessageHandler(messages, new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil)
	router := setupMessagesRouter(handler, 1)

	req := httptest.NewRequest(http.MethodGet, "/conversations/2/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"messages":[]`)
	messages.AssertNotCalled(t, "ListMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListConversations_ReportsPeer(t *testing.T) {
	messages := new(mocks.MockMessageRepository)
	messages.On("ListConversations", mock.Anything, int64(2)).Return([]models.Conversation{
		{ID: 6, UserAID: 1, UserBID: 2},
	}, nil)

	handler := NewMessageHandler(messages, new(mocks.MockFriendRepository), new(mocks.MockUserRepository), nil)
	router := setupMessagesRouter(handler, 2)

	req := httptest.NewRequest(http.MethodGet, "/conversations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"peer_id":1`)
}
