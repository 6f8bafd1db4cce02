package records

import (
	"context"
	"encoding/json"
	"sync"

	"campus/records/internal/events"
	"campus/records/internal/kv"
)

type TeacherRecord struct {
	Code     string   `json:"code"`
	Subjects []string `json:"subjects"`
}

type Review struct {
	Rating   uint8  `json:"rating"`
	Comments string `json:"comments"`
}

// Service holds the owner identity fixed at construction and runs every
// operation against the key-value store. Mutating calls are serialized
// through one write lock so check-then-set sequences (redemption above all)
// cannot interleave; reads share the read lock.
type Service struct {
	mu    sync.RWMutex
	owner string
	store kv.Store
	sink  events.Sink
}

func New(owner string, store kv.Store, sink events.Sink) *Service {
	return &Service{owner: owner, store: store, sink: sink}
}

func (s *Service) Owner() string {
	return s.owner
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(ctx, event)
}

func (s *Service) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(value, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) setJSON(ctx context.Context, key string, in interface{}) error {
	value, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, key, value)
}
