package event_bus

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type EventType string

// Event carries an untyped payload together with the context of the publisher, so subscribers
// see the same current user as the code that published it.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{
		ctx:       ctx,
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// EventT is the typed view of an Event handed to SubscribeTyped handlers.
type EventT[T any] struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      T
}

func (e EventT[T]) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type subscription struct {
	id      uint64
	handler func(Event) error
}

// EventBus dispatches events synchronously. Handlers of one event type run in subscription order
// inside Publish.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType]map[uint64]func(Event) error
	nextId      uint64
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType]map[uint64]func(Event) error),
	}
}

// Subscribe registers h for eventType and returns a function removing it again.
func (eb *EventBus) Subscribe(eventType EventType, h func(Event) error) (unsubscribe func()) {
	eb.mu.Lock()
	eb.nextId++
	id := eb.nextId
	if eb.subscribers[eventType] == nil {
		eb.subscribers[eventType] = make(map[uint64]func(Event) error)
	}
	eb.subscribers[eventType][id] = h
	eb.mu.Unlock()

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		handlers := eb.subscribers[eventType]
		if handlers == nil {
			return
		}
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(eb.subscribers, eventType)
		}
	}
}

// SubscribeTyped registers a handler that only sees payloads of type T. Events carrying any other
// payload type are skipped.
//
//	event_bus.SubscribeTyped[event_bus.TimeEntryLogged](bus, event_bus.TimeEntryLoggedEvent,
//	    func(e event_bus.EventT[event_bus.TimeEntryLogged]) error {
//	        log.Debugf("entry %s logged on task %d", e.Data.EntryId, e.Data.TaskId)
//	        return nil
//	    })
func SubscribeTyped[T any](eb *EventBus, eventType EventType, h func(EventT[T]) error) (unsubscribe func()) {
	return eb.Subscribe(eventType, func(e Event) error {
		payload, ok := e.Data.(T)
		if !ok {
			log.Debugf("EventBus: skipping %s, expected payload %T, got %T", eventType, *new(T), e.Data)
			return nil
		}
		return h(EventT[T]{
			ctx:       e.ctx,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Data:      payload,
		})
	})
}

func (eb *EventBus) snapshot(eventType EventType) []subscription {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	subs := make([]subscription, 0, len(eb.subscribers[eventType]))
	for id, h := range eb.subscribers[eventType] {
		subs = append(subs, subscription{id: id, handler: h})
	}
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].id < subs[j].id
	})
	return subs
}

// Publish runs every handler of e.Type. A failing or panicking handler does not stop the others;
// all failures are joined into the returned error. A cancelled context stops the dispatch.
func (eb *EventBus) Publish(e Event) error {
	if err := e.Context().Err(); err != nil {
		return fmt.Errorf("event %s: context cancelled before publish: %w", e.Type, err)
	}

	var errs []error
	for _, sub := range eb.snapshot(e.Type) {
		if err := e.Context().Err(); err != nil {
			errs = append(errs, fmt.Errorf("context cancelled during event processing: %w", err))
			break
		}
		if err := invoke(sub, e); err != nil {
			log.Errorf("EventBus: handler %d failed for %s: %v", sub.id, e.Type, err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("event %s: %d handler(s) failed: %w", e.Type, len(errs), errors.Join(errs...))
	}
	return nil
}

func invoke(sub subscription, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %d panicked on %s: %v", sub.id, e.Type, r)
		}
	}()
	return sub.handler(e)
}
