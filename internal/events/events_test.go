package events

import (
	"context"
	"testing"
)

type recordingSink struct {
	seen []Event
}

func (r *recordingSink) Emit(_ context.Context, event Event) {
	r.seen = append(r.seen, event)
}

func TestNewFillsEnvelope(t *testing.T) {
	event := New(TypeReviewAdded)
	if event.Type != TypeReviewAdded {
		t.Fatalf("unexpected type %q", event.Type)
	}
	if event.ID == "" {
		t.Fatalf("expected event id")
	}
	if event.At == 0 {
		t.Fatalf("expected timestamp")
	}
	other := New(TypeReviewAdded)
	if other.ID == event.ID {
		t.Fatalf("event ids must be unique")
	}
}

func TestMultiFansOut(t *testing.T) {
	first := &recordingSink{}
	second := &recordingSink{}
	multi := Multi{first, second}

	event := New(TypeTeacherActivated)
	multi.Emit(context.Background(), event)

	if len(first.seen) != 1 || len(second.seen) != 1 {
		t.Fatalf("expected both sinks to receive the event")
	}
	if first.seen[0].ID != event.ID || second.seen[0].ID != event.ID {
		t.Fatalf("event mutated in fan-out")
	}
}
