package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/markethub/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New()),
	}
}

type recordingHandler struct {
	types   []string
	handled []shared.DomainEvent
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderSettled"}}
	bus.Subscribe(handler)

	evt := newTestEvent("OrderSettled")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, handler.handled, 1)
	assert.Equal(t, evt.EventID(), handler.handled[0].EventID())
}

func TestInMemoryEventBus_IgnoresUnrelatedEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderSettled"}}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("SomethingElse")))
	assert.Empty(t, handler.handled)
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopSiblings(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"OrderSettled"}, err: errors.New("smtp down")}
	sibling := &recordingHandler{types: []string{"OrderSettled"}}
	bus.Subscribe(failing)
	bus.Subscribe(sibling)

	err := bus.Publish(context.Background(), newTestEvent("OrderSettled"))

	// error surfaces for outbox retry, but the sibling still ran
	assert.Error(t, err)
	assert.Len(t, sibling.handled, 1)
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"OrderSettled"}, panics: true}
	sibling := &recordingHandler{types: []string{"OrderSettled"}}
	bus.Subscribe(panicking)
	bus.Subscribe(sibling)

	err := bus.Publish(context.Background(), newTestEvent("OrderSettled"))

	assert.Error(t, err)
	assert.Len(t, sibling.handled, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"OrderSettled"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderSettled")))
	assert.Empty(t, handler.handled)
}

func TestHandlerRegistry_WildcardReceivesAll(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcard := &recordingHandler{}
	registry.Register(wildcard)

	handlers := registry.GetHandlers("Anything")
	require.Len(t, handlers, 1)
}
