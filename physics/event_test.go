package physics

import "testing"

func TestEmitterOrderAndOff(t *testing.T) {
	var em Emitter
	var calls []string
	id1 := em.On(EventCollisionStart, func(Event) { calls = append(calls, "first") })
	em.On(EventCollisionStart, func(Event) { calls = append(calls, "second") })
	em.On(EventCollisionEnd, func(Event) { calls = append(calls, "end") })

	em.Trigger(Event{Kind: EventCollisionStart})
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v", calls)
	}
	if !em.Off(EventCollisionStart, id1) {
		t.Fatal("Off returned false")
	}
	if em.Off(EventCollisionStart, id1) {
		t.Error("second Off returned true")
	}
	calls = nil
	em.Trigger(Event{Kind: EventCollisionStart})
	if len(calls) != 1 || calls[0] != "second" {
		t.Errorf("calls after Off = %v", calls)
	}
	if !em.Listening(EventCollisionEnd) || em.Listening(EventBodyExit) {
		t.Error("Listening wrong")
	}
}

func TestEmitterOffDuringTrigger(t *testing.T) {
	var em Emitter
	count := 0
	var id HandlerID
	id = em.On(EventBodyEnter, func(Event) {
		count++
		em.Off(EventBodyEnter, id)
	})
	em.On(EventBodyEnter, func(Event) { count++ })

	em.Trigger(Event{Kind: EventBodyEnter})
	if count != 2 {
		t.Errorf("first trigger count = %d, want 2", count)
	}
	em.Trigger(Event{Kind: EventBodyEnter})
	if count != 3 {
		t.Errorf("second trigger count = %d, want 3", count)
	}
}

func TestEventKindString(t *testing.T) {
	tests := map[EventKind]string{
		EventAdd:             "add",
		EventCollisionActive: "collisionActive",
		EventBodyExit:        "bodyExit",
		EventDuringUpdate:    "duringUpdate",
		EventKind(200):       "unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}
