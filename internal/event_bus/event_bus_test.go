package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey string

func TestSubscribeTyped_ReceivesPayloadAndContext(t *testing.T) {
	// given
	bus := NewEventBus()
	ctx := context.WithValue(context.Background(), ctxKey("who"), "alice")
	entryId := uuid.New()
	var received TimeEntryLogged
	var who any
	SubscribeTyped[TimeEntryLogged](bus, TimeEntryLoggedEvent, func(e EventT[TimeEntryLogged]) error {
		received = e.Data
		who = e.Context().Value(ctxKey("who"))
		return nil
	})

	// when
	err := bus.Publish(NewEvent(ctx, TimeEntryLoggedEvent, TimeEntryLogged{EntryId: entryId, TaskId: 7, UserId: 2}))

	// then
	require.NoError(t, err)
	assert.Equal(t, entryId, received.EntryId)
	assert.Equal(t, 7, received.TaskId)
	assert.Equal(t, "alice", who)
}

func TestSubscribeTyped_SkipsOtherPayloads(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	SubscribeTyped[CostItemAdded](bus, CostItemAddedEvent, func(e EventT[CostItemAdded]) error {
		calls++
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), CostItemAddedEvent, "not a cost"))

	require.NoError(t, err)
	assert.Equal(t, 0, calls)
}

func TestPublish_RunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int
	for i := 1; i <= 5; i++ {
		bus.Subscribe(CostItemDeletedEvent, func(e Event) error {
			order = append(order, i)
			return nil
		})
	}

	require.NoError(t, bus.Publish(NewEvent(context.Background(), CostItemDeletedEvent, nil)))

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}

func TestPublish_CollectsErrorsAndRecoversPanics(t *testing.T) {
	// given
	bus := NewEventBus()
	failure := errors.New("boom")
	reached := false
	bus.Subscribe(TimeEntryDeletedEvent, func(e Event) error { return failure })
	bus.Subscribe(TimeEntryDeletedEvent, func(e Event) error { panic("bad handler") })
	bus.Subscribe(TimeEntryDeletedEvent, func(e Event) error {
		reached = true
		return nil
	})

	// when
	err := bus.Publish(NewEvent(context.Background(), TimeEntryDeletedEvent, nil))

	// then
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
	assert.True(t, reached)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := bus.Subscribe(FinanceSettingsUpdatedEvent, func(e Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), FinanceSettingsUpdatedEvent, nil)))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), FinanceSettingsUpdatedEvent, nil)))

	assert.Equal(t, 1, calls)
}

func TestPublish_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Subscribe(CostItemAddedEvent, func(e Event) error {
		calls++
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, CostItemAddedEvent, nil))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}
