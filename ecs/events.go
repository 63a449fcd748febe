package ecs

import "github.com/milk9111/wallrunner/ecs/component"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// CollisionEventKind identifies collision event types.
type CollisionEventKind string

const (
	CollisionEventEnter CollisionEventKind = "collision_enter"
	CollisionEventExit  CollisionEventKind = "collision_exit"
	TriggerEventEnter   CollisionEventKind = "trigger_enter"
	TriggerEventExit    CollisionEventKind = "trigger_exit"
)

// EventTypeCollision is the Event.Type used for CollisionEvent payloads.
const EventTypeCollision = "collision"

// CollisionEvent is emitted when a dynamic body starts or stops touching
// another collider. Layer is the layer of Other.
type CollisionEvent struct {
	Entity Entity
	Other  Entity
	Kind   CollisionEventKind
	Layer  component.Layer
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
