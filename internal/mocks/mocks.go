package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
)

// MockFriendRepository mocks FriendRepository behavior for handlers.
type MockFriendRepository struct {
	mock.Mock
}

func (m *MockFriendRepository) CreateRequest(ctx context.Context, fromUserID, toUserID int64) (*models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req *models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(*models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *MockFriendRepository) GetIncomingRequests(ctx context.Context, userID int64) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockFriendRepository) AcceptRequest(ctx context.Context, requestID, userID int64) error {
	args := m.Called(ctx, requestID, userID)
	return args.Error(0)
}

func (m *MockFriendRepository) RejectRequest(ctx context.Context, requestID, userID int64) error {
	args := m.Called(ctx, requestID, userID)
	return args.Error(0)
}

func (m *MockFriendRepository) ListFriends(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	var friends []int64
	if val := args.Get(0); val != nil {
		friends = val.([]int64)
	}
	return friends, args.Error(1)
}

func (m *MockFriendRepository) ListRequests(ctx context.Context, involving int64) ([]models.FriendRequest, error) {
	args := m.Called(ctx, involving)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockFriendRepository) ListFriendships(ctx context.Context, involving int64) ([]models.Friendship, error) {
	args := m.Called(ctx, involving)
	var friendships []models.Friendship
	if val := args.Get(0); val != nil {
		friendships = val.([]models.Friendship)
	}
	return friendships, args.Error(1)
}

func (m *MockFriendRepository) HasPendingRequest(ctx context.Context, fromUserID, toUserID int64) (bool, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) AreFriends(ctx context.Context, userID, otherID int64) (bool, error) {
	args := m.Called(ctx, userID, otherID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) DeleteFriendship(ctx context.Context, userID, friendID int64) error {
	args := m.Called(ctx, userID, friendID)
	return args.Error(0)
}

var _ repositories.FriendRepository = (*MockFriendRepository)(nil)

// MockUserRepository mocks the profile store.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) EnsureProfile(ctx context.Context, id int64, username string) (*models.User, error) {
	args := m.Called(ctx, id, username)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int64, displayName, bio, visibility string) error {
	args := m.Called(ctx, id, displayName, bio, visibility)
	return args.Error(0)
}

func (m *MockUserRepository) GetAvatarURL(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) SetAvatarURL(ctx context.Context, id int64, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

func (m *MockUserRepository) ClearAvatarURL(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

// MockGroupRepository mocks the group membership store.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, title, description string, creatorID int64) (*models.Group, error) {
	args := m.Called(ctx, title, description, creatorID)
	var group *models.Group
	if val := args.Get(0); val != nil {
		group = val.(*models.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	args := m.Called(ctx, groupID)
	var group *models.Group
	if val := args.Get(0); val != nil {
		group = val.(*models.Group)
	}
	return group, args.Error(1)
}

func (m *MockGroupRepository) Join(ctx context.Context, groupID, userID int64) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) Leave(ctx context.Context, groupID, userID int64) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) GetMembership(ctx context.Context, groupID, userID int64) (*models.GroupMembership, error) {
	args := m.Called(ctx, groupID, userID)
	var membership *models.GroupMembership
	if val := args.Get(0); val != nil {
		membership = val.(*models.GroupMembership)
	}
	return membership, args.Error(1)
}

func (m *MockGroupRepository) ListMembers(ctx context.Context, groupID int64) ([]models.GroupMembership, error) {
	args := m.Called(ctx, groupID)
	var members []models.GroupMembership
	if val := args.Get(0); val != nil {
		members = val.([]models.GroupMembership)
	}
	return members, args.Error(1)
}

var _ repositories.GroupRepository = (*MockGroupRepository)(nil)

// MockDatingRepository mocks the like/pass/match store.
type MockDatingRepository struct {
	mock.Mock
}

func (m *MockDatingRepository) PutDecision(ctx context.Context, actorID, targetID int64, liked bool) (repositories.DecisionResult, error) {
	args := m.Called(ctx, actorID, targetID, liked)
	return args.Get(0).(repositories.DecisionResult), args.Error(1)
}

func (m *MockDatingRepository) ListDecisionsBetween(ctx context.Context, userID, otherID int64) ([]models.DatingDecision, error) {
	args := m.Called(ctx, userID, otherID)
	var decisions []models.DatingDecision
	if val := args.Get(0); val != nil {
		decisions = val.([]models.DatingDecision)
	}
	return decisions, args.Error(1)
}

func (m *MockDatingRepository) ListMatches(ctx context.Context, userID int64) ([]models.DatingMatch, error) {
	args := m.Called(ctx, userID)
	var matches []models.DatingMatch
	if val := args.Get(0); val != nil {
		matches = val.([]models.DatingMatch)
	}
	return matches, args.Error(1)
}

func (m *MockDatingRepository) ListLikedMe(ctx context.Context, userID int64, limit, offset int) ([]models.DatingDecision, error) {
	args := m.Called(ctx, userID, limit, offset)
	var decisions []models.DatingDecision
	if val := args.Get(0); val != nil {
		decisions = val.([]models.DatingDecision)
	}
	return decisions, args.Error(1)
}

func (m *MockDatingRepository) CountLikedMe(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repositories.DatingRepository = (*MockDatingRepository)(nil)

// MockPostRepository mocks wall-post persistence.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, authorID, wallOwnerID int64, body string) (*models.Post, error) {
	args := m.Called(ctx, authorID, wallOwnerID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, postID int64) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListWall(ctx context.Context, wallOwnerID int64, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, wallOwnerID, limit, offset)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, postID int64) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

var _ repositories.PostRepository = (*MockPostRepository)(nil)

// MockMessageRepository mocks conversation and message persistence.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) EnsureConversation(ctx context.Context, userID, otherID int64) (*models.Conversation, error) {
	args := m.Called(ctx, userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockMessageRepository) CreateMessage(ctx context.Context, conversationID, senderID int64, body string) (*models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessageRepository) ListMessages(ctx context.Context, conversationID int64, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID, limit, offset)
	var messages []models.Message
	if val := args.Get(0); val != nil {
		messages = val.([]models.Message)
	}
	return messages, args.Error(1)
}

func (m *MockMessageRepository) ListConversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	var conversations []models.Conversation
	if val := args.Get(0); val != nil {
		conversations = val.([]models.Conversation)
	}
	return conversations, args.Error(1)
}

var _ repositories.MessageRepository = (*MockMessageRepository)(nil)

// MockPublisher mocks RabbitMQ publisher behavior.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*MockPublisher)(nil)
