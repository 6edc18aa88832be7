package storage

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of StorageService.
type MockStorage struct {
	mock.Mock
}

var _ StorageService = (*MockStorage)(nil)

func (m *MockStorage) Upload(ctx context.Context, key string, contentType string, body io.Reader) error {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	args := m.Called(ctx, key, contentType)
	return args.Error(0)
}

func (m *MockStorage) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	args := m.Called(ctx, key, duration)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
