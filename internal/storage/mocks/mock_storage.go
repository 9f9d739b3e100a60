package mocks

import (
	"context"
	"io"
	"time"

	"empapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, obj storage.Object, r io.Reader) (storage.Object, error) {
	args := m.Called(ctx, obj, r)
	if f, ok := args.Get(0).(func(storage.Object) storage.Object); ok {
		return f(obj), args.Error(1)
	}
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}
