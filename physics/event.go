package physics

import "slices"

// EventKind identifies a lifecycle or collision notification.
type EventKind uint8

const (
	EventAdd EventKind = iota
	EventDelete
	EventCollisionStart
	EventCollisionActive
	EventCollisionEnd
	EventBodyEnter
	EventBodyInside
	EventBodyExit
	EventBeforeUpdate
	EventDuringUpdate
	eventKindCount
)

var eventNames = [eventKindCount]string{
	"add", "delete",
	"collisionStart", "collisionActive", "collisionEnd",
	"bodyEnter", "bodyInside", "bodyExit",
	"beforeUpdate", "duringUpdate",
}

func (k EventKind) String() string {
	if k < eventKindCount {
		return eventNames[k]
	}
	return "unknown"
}

// Event is delivered to handlers. Body and Shape are the receiver's side of
// a collision, Other and OtherShape the opposite side. Fields that do not
// apply to a kind are nil or zero.
type Event struct {
	Kind       EventKind
	Body       *RigidBody
	Other      *RigidBody
	Shape      *CollisionShape
	OtherShape *CollisionShape
	Pair       *Pair
	Dt         float64
	Frame      uint64
}

// Handler receives events.
type Handler func(Event)

// HandlerID identifies a registration for Off.
type HandlerID uint64

type handlerEntry struct {
	id HandlerID
	fn Handler
}

// Emitter is a typed observer list. The zero value is ready to use.
type Emitter struct {
	handlers [eventKindCount][]handlerEntry
	next     HandlerID
}

// On registers fn for kind.
func (e *Emitter) On(kind EventKind, fn Handler) HandlerID {
	if kind >= eventKindCount || fn == nil {
		return 0
	}
	e.next++
	e.handlers[kind] = append(e.handlers[kind], handlerEntry{id: e.next, fn: fn})
	return e.next
}

// Off removes a registration. It reports whether one was found.
func (e *Emitter) Off(kind EventKind, id HandlerID) bool {
	if kind >= eventKindCount {
		return false
	}
	hs := e.handlers[kind]
	i := slices.IndexFunc(hs, func(h handlerEntry) bool { return h.id == id })
	if i < 0 {
		return false
	}
	// Copy so a Trigger in progress keeps iterating its own snapshot.
	e.handlers[kind] = slices.Delete(slices.Clone(hs), i, i+1)
	return true
}

// Listening reports whether any handler is registered for kind.
func (e *Emitter) Listening(kind EventKind) bool {
	return kind < eventKindCount && len(e.handlers[kind]) > 0
}

// Trigger calls every handler registered for ev.Kind in registration order.
func (e *Emitter) Trigger(ev Event) {
	if ev.Kind >= eventKindCount {
		return
	}
	for _, h := range e.handlers[ev.Kind] {
		h.fn(ev)
	}
}
