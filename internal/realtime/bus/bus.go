package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransitionEvent announces a per-skill status move so downstream
// surfaces (frontier views, notifications) can refresh.
type TransitionEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	SkillID    uuid.UUID `json:"skill_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	Confidence float64   `json:"confidence"`
	At         time.Time `json:"at"`
}

type Bus interface {
	PublishTransition(ctx context.Context, ev TransitionEvent) error
	Close() error
}

type noopBus struct{}

// NewNoopBus stands in when no broker is configured.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) PublishTransition(context.Context, TransitionEvent) error { return nil }
func (noopBus) Close() error                                             { return nil }
