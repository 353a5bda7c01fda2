package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"social-service/internal/apperrors"
	"social-service/internal/mocks"
	"social-service/internal/models"
)

type relationshipFixture struct {
	friends *mocks.MockFriendRepository
	groups  *mocks.MockGroupRepository
	dating  *mocks.MockDatingRepository
	users   *mocks.MockUserRepository
	router  *gin.Engine
}

func setupRelationshipRouter(viewerID int64) *relationshipFixture {
	gin.SetMode(gin.TestMode)
	f := &relationshipFixture{
		friends: new(mocks.MockFriendRepository),
		groups:  new(mocks.MockGroupRepository),
		dating:  new(mocks.MockDatingRepository),
		users:   new(mocks.MockUserRepository),
	}
	handler := NewRelationshipHandler(f.friends, f.groups, f.dating, f.users)
	r := gin.New()
	if viewerID != 0 {
		r.Use(authAs(viewerID))
	}
	r.GET("/relationships/:id", handler.Resolve)
	f.router = r
	return f
}

func (f *relationshipFixture) emptySnapshot(viewerID, targetID int64, target *models.User) {
	f.friends.On("ListRequests", mock.Anything, viewerID).Return(nil, nil)
	f.friends.On("ListFriendships", mock.Anything, viewerID).Return(nil, nil)
	f.dating.On("ListDecisionsBetween", mock.Anything, viewerID, targetID).Return(nil, nil)
	f.dating.On("ListMatches", mock.Anything, viewerID).Return(nil, nil)
	if target == nil {
		f.users.On("GetByID", mock.Anything, targetID).Return(nil, apperrors.NotFound("user not found"))
	} else {
		f.users.On("GetByID", mock.Anything, targetID).Return(target, nil)
	}
}

func (f *relationshipFixture) resolve(t *testing.T, path string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec, rec.Body.String()
}

func TestResolve_Unauthenticated(t *testing.T) {
	f := setupRelationshipRouter(0)

	rec, _ := f.resolve(t, "/relationships/2")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolve_Strangers(t *testing.T) {
	f := setupRelationshipRouter(1)
	f.emptySnapshot(1, 2, &models.User{ID: 2, Visibility: models.VisibilityPublic})

	rec, body := f.resolve(t, "/relationships/2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"friend_status":"not_friends"`)
	require.Contains(t, body, `"group_status":"not_member"`)
	require.Contains(t, body, `"dating_status":"no_signal"`)
}

func TestResolve_Self(t *testing.T) {
	f := setupRelationshipRouter(1)
	f.emptySnapshot(1, 1, &models.User{ID: 1, Visibility: models.VisibilityPublic})

	rec, body := f.resolve(t, "/relationships/1")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"friend_status":"self"`)
}

func TestResolve_FriendshipWinsOverStaleRequest(t *testing.T) {
	// An accepted pair can still carry an old pending row if a cleanup
	// lagged; the friendship outranks it.
	f := setupRelationshipRouter(1)
	f.friends.On("ListRequests", mock.Anything, int64(1)).Return([]models.FriendRequest{
		{ID: 5, FromUserID: 1, ToUserID: 2, Status: models.RequestStatusPending},
	}, nil)
	f.friends.On("ListFriendships", mock.Anything, int64(1)).Return([]models.Friendship{
		{UserID: 1, FriendID: 2},
	}, nil)
	f.dating.On("ListDecisionsBetween", mock.Anything, int64(1), int64(2)).Return(nil, nil)
	f.dating.On("ListMatches", mock.Anything, int64(1)).Return(nil, nil)
	f.users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Visibility: models.VisibilityPublic}, nil)

	rec, body := f.resolve(t, "/relationships/2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"friend_status":"friends"`)
}

func TestResolve_RequestReceived(t *testing.T) {
	f := setupRelationshipRouter(1)
	f.friends.On("ListRequests", mock.Anything, int64(1)).Return([]models.FriendRequest{
		{ID: 5, FromUserID: 2, ToUserID: 1, Status: models.RequestStatusPending},
	}, nil)
	f.friends.On("ListFriendships", mock.Anything, int64(1)).Return(nil, nil)
	f.dating.On("ListDecisionsBetween", mock.Anything, int64(1), int64(2)).Return(nil, nil)
	f.dating.On("ListMatches", mock.Anything, int64(1)).Return(nil, nil)
	f.users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Visibility: models.VisibilityPublic}, nil)

	rec, body := f.resolve(t, "/relationships/2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"friend_status":"request_received"`)
	require.Contains(t, body, `"actions":["accept","reject"]`)
}

func TestResolve_MatchedPair(t *testing.T) {
	f := setupRelationshipRouter(5)
	f.friends.On("ListRequests", mock.Anything, int64(5)).Return(nil, nil)
	f.friends.On("ListFriendships", mock.Anything, int64(5)).Return(nil, nil)
	f.dating.On("ListDecisionsBetween", mock.Anything, int64(5), int64(2)).Return([]models.DatingDecision{
		{ActorID: 5, TargetID: 2, Liked: true},
	}, nil)
	f.dating.On("ListMatches", mock.Anything, int64(5)).Return([]models.DatingMatch{
		{ID: 1, UserAID: 2, UserBID: 5},
	}, nil)
	f.users.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2, Visibility: models.VisibilityPublic}, nil)

	rec, body := f.resolve(t, "/relationships/2")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"dating_status":"matched"`)
}

func TestResolve_GroupMembershipWhenAsked(t *testing.T) {
	f := setupRelationshipRouter(1)
	f.emptySnapshot(1, 2, &models.User{ID: 2, Visibility: models.VisibilityPublic})
	f.groups.On("GetMembership", mock.Anything, int64(7), int64(1)).
		Return(&models.GroupMembership{GroupID: 7, UserID: 1, Role: models.GroupRoleMember}, nil)

	rec, body := f.resolve(t, "/relationships/2?group_id=7")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"group_status":"member"`)
}

func TestResolve_DeletedTargetResolvesNotError(t *testing.T) {
	f := setupRelationshipRouter(1)
	f.emptySnapshot(1, 42, nil)

	rec, body := f.resolve(t, "/relationships/42")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, body, `"friend_status":"not_friends"`)
}
