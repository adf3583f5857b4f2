package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists audit records. It is append-only so sinks can range from an
// in-memory slice in tests to a Kafka topic in production.
type Store interface {
	Append(ctx context.Context, record CheckRecord) error
}

// Publisher captures sanctions check records. It fills in identity and
// timestamp so callers only describe the check itself.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends one record to the trail.
func (p *Publisher) Emit(ctx context.Context, record CheckRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	return p.store.Append(ctx, record)
}
