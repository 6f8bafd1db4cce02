package records

import (
	"context"

	"campus/records/internal/events"
	"campus/records/internal/kv"
)

const testOwner = "owner-1"

type captureSink struct {
	events []events.Event
}

func (c *captureSink) Emit(_ context.Context, event events.Event) {
	c.events = append(c.events, event)
}

func newTestService() (*Service, *captureSink) {
	sink := &captureSink{}
	return New(testOwner, kv.NewMemory(), sink), sink
}
