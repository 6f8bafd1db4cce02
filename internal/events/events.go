package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	TypeTeacherActivated     = "teacher_activated"
	TypeTeacherDeactivated   = "teacher_deactivated"
	TypeStudentActivated     = "student_activated"
	TypeStudentDeactivated   = "student_deactivated"
	TypeRecruiterActivated   = "recruiter_activated"
	TypeRecruiterDeactivated = "recruiter_deactivated"
	TypeReviewAdded          = "review_added"
	TypeGradeSheetPublished  = "grade_sheet_published"
)

type Event struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Identity   string `json:"identity,omitempty"`
	Code       string `json:"code,omitempty"`
	Subject    string `json:"subject,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	Rating     uint8  `json:"rating,omitempty"`
	Semester   uint32 `json:"semester,omitempty"`
	Reference  string `json:"reference,omitempty"`
	At         int64  `json:"at"`
}

func New(eventType string) Event {
	return Event{
		ID:   uuid.NewString(),
		Type: eventType,
		At:   time.Now().UTC().Unix(),
	}
}

// Sink receives state-change events. Emission is fire-and-forget: the core
// never waits on delivery and never fails a call over a sink error.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

type LogSink struct{}

func (LogSink) Emit(_ context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}
	log.Printf("event %s", data)
}

type RedisSink struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisSink(client *redis.Client, channel string, timeout time.Duration) *RedisSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RedisSink{client: client, channel: channel, timeout: timeout}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	if err := s.client.Publish(publishCtx, s.channel, data).Err(); err != nil {
		log.Printf("event publish error: %v", err)
	}
}

type PrometheusSink struct {
	emitted *prometheus.CounterVec
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	emitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "records_events_total",
		Help: "State-change events emitted, by type.",
	}, []string{"type"})
	reg.MustRegister(emitted)
	return &PrometheusSink{emitted: emitted}
}

func (s *PrometheusSink) Emit(_ context.Context, event Event) {
	s.emitted.WithLabelValues(event.Type).Inc()
}

type Multi []Sink

func (m Multi) Emit(ctx context.Context, event Event) {
	for _, sink := range m {
		sink.Emit(ctx, event)
	}
}
