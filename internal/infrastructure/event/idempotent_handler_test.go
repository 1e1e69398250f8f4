package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/shared"
)

type memoryStore struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{seen: make(map[string]bool)}
}

func (s *memoryStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memoryStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *memoryStore) Close() error { return nil }

func TestIdempotentHandler_ProcessesOnce(t *testing.T) {
	store := newMemoryStore()
	inner := &recordingHandler{types: []string{"OrderSettled"}}
	handler := NewIdempotentHandler("loyalty", inner, store, zap.NewNop())

	evt := newTestEvent("OrderSettled")
	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Len(t, inner.handled, 1)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsProcessed)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_KeysScopedByName(t *testing.T) {
	store := newMemoryStore()
	loyalty := &recordingHandler{types: []string{"OrderSettled"}}
	earningsH := &recordingHandler{types: []string{"OrderSettled"}}

	h1 := NewIdempotentHandler("loyalty", loyalty, store, zap.NewNop())
	h2 := NewIdempotentHandler("earnings", earningsH, store, zap.NewNop())

	evt := newTestEvent("OrderSettled")
	require.NoError(t, h1.Handle(context.Background(), evt))
	require.NoError(t, h2.Handle(context.Background(), evt))

	// same event, different grants: both handlers ran
	assert.Len(t, loyalty.handled, 1)
	assert.Len(t, earningsH.handled, 1)
}

func TestIdempotentHandler_StoreFailureFallsThrough(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("redis down")
	inner := &recordingHandler{types: []string{"OrderSettled"}}
	handler := NewIdempotentHandler("loyalty", inner, store, zap.NewNop())

	require.NoError(t, handler.Handle(context.Background(), newTestEvent("OrderSettled")))
	assert.Len(t, inner.handled, 1)
}

func TestIdempotentHandler_PropagatesHandlerError(t *testing.T) {
	store := newMemoryStore()
	inner := &recordingHandler{types: []string{"OrderSettled"}, err: errors.New("boom")}
	handler := NewIdempotentHandler("loyalty", inner, store, zap.NewNop())

	err := handler.Handle(context.Background(), newTestEvent("OrderSettled"))
	assert.Error(t, err)
	assert.Equal(t, int64(1), handler.GetMetrics().Stats().EventsFailed)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := newMemoryStore()
	inner := &recordingHandler{types: []string{"OrderSettled"}}
	handler := NewIdempotentHandler("loyalty", inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)

	evt := newTestEvent("OrderSettled")
	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt))

	assert.Len(t, inner.handled, 2)
}
