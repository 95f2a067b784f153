// Package audit captures structured events from the certificate workflows.
// It is append-only and uses a pluggable store so tests can swap sinks.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the certificate service.
const (
	ActionIssue        = "issue"
	ActionUpdateIssuer = "update_issuer"
	ActionVerify       = "verify"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	ID            uuid.UUID `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	CertificateID string    `json:"certificateId"`
	Action        string    `json:"action"`
	Outcome       string    `json:"outcome"`
	Detail        string    `json:"detail,omitempty"`
}

// Store persists events.
type Store interface {
	Append(ctx context.Context, e Event) error
	List(ctx context.Context) ([]Event, error)
}

// Publisher stamps and appends events.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, e Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return p.store.Append(ctx, e)
}

func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}
