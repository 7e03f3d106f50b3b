package cachedocsrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	cacherepo "cloudnest/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

type mockResponse[T any] struct {
	mock.Mock
	val T
	err error
}

func (m *mockCache) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	args := m.Called(ctx, keys)
	return args.Get(0).(cacherepo.CacheResponse[int64])
}

func (r *mockResponse[T]) Err() error {
	return r.err
}

func (r *mockResponse[T]) Result() (T, error) {
	return r.val, r.err
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{val: `{"id":"doc1"}`, err: nil}

	mockCache.On("Get", mock.Anything, "doc1").
		Return(mockResp)

	repo := New(mockCache, 10*time.Minute)

	result, err := repo.Get(context.Background(), "doc1")
	assert.NoError(t, err)
	assert.Equal(t, `{"id":"doc1"}`, result)
}

func TestGet_Miss(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{val: "", err: nil}

	mockCache.On("Get", mock.Anything, "missing").
		Return(mockResp)

	repo := New(mockCache, 10*time.Minute)

	result, err := repo.Get(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestSet_UsesConfiguredTTL(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{err: nil}

	mockCache.On("Set", mock.Anything, "doc1", `{"id":"doc1"}`, 10*time.Minute).
		Return(mockResp)

	repo := New(mockCache, 10*time.Minute)

	err := repo.Set(context.Background(), "doc1", `{"id":"doc1"}`)
	assert.NoError(t, err)
	mockCache.AssertExpectations(t)
}

func TestDel_Success(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[int64]{err: nil}

	mockCache.On("Del", mock.Anything, []string{"doc1", "doc2"}).
		Return(mockResp)

	repo := New(mockCache, 10*time.Minute)

	err := repo.Del(context.Background(), "doc1", "doc2")
	assert.NoError(t, err)
}

func TestDel_Error(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[int64]{err: errors.New("connection error")}

	mockCache.On("Del", mock.Anything, []string{"doc1"}).
		Return(mockResp)

	repo := New(mockCache, 10*time.Minute)

	err := repo.Del(context.Background(), "doc1")
	assert.Error(t, err)
}
