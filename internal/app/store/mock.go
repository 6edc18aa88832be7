package store

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rtchat/internal/app/user"
)

// MockStores is a testify mock implementing every store contract.
type MockStores struct {
	mock.Mock
}

var _ Stores = (*MockStores)(nil)

func (m *MockStores) CreateUser(ctx context.Context, params CreateUserParams) (user.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockStores) FindUserByEmail(ctx context.Context, email string) (user.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.Account), args.Error(1)
}

func (m *MockStores) FindUserByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockStores) ListUsers(ctx context.Context, excludeID string) ([]user.User, error) {
	args := m.Called(ctx, excludeID)
	if users, ok := args.Get(0).([]user.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStores) SetOnline(ctx context.Context, userID string, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

func (m *MockStores) CreateMessage(ctx context.Context, msg Message) (Message, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(Message), args.Error(1)
}

func (m *MockStores) MarkMessageRead(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockStores) ListMessages(ctx context.Context, offset, limit int) ([]Message, int, error) {
	args := m.Called(ctx, offset, limit)
	if msgs, ok := args.Get(0).([]Message); ok {
		return msgs, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockStores) CreateCall(ctx context.Context, call Call) (Call, error) {
	args := m.Called(ctx, call)
	return args.Get(0).(Call), args.Error(1)
}

func (m *MockStores) UpdateCallStatus(ctx context.Context, callID string, status CallStatus, endedAt *time.Time) error {
	args := m.Called(ctx, callID, status, endedAt)
	return args.Error(0)
}
