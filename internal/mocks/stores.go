// Package mocks provides testify mocks for the model store interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmas-wbpl/sonicwall/internal/model"
)

// UserStore is a mock implementation of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

// SessionStore is a mock implementation of model.SessionStore.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Create(ctx context.Context, userID int64) (model.Session, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Session), args.Error(1)
}

func (m *SessionStore) TerminateByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *SessionStore) AnotherAdminActive(ctx context.Context, excludingUserID int64) (bool, error) {
	args := m.Called(ctx, excludingUserID)
	return args.Bool(0), args.Error(1)
}

func (m *SessionStore) Validate(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
