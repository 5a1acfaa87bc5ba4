package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const RoutingKeyReportGenerated = "report.generated"

// Event is a message published after a state change.
type Event interface {
	RoutingKey() string
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ReportGenerated is emitted once a report artifact and its row are persisted.
type ReportGenerated struct {
	ReportID    uuid.UUID `json:"report_id"`
	UserID      uuid.UUID `json:"user_id"`
	Month       string    `json:"month"`
	Format      string    `json:"format"`
	FileURL     string    `json:"file_url"`
	RowCount    int       `json:"row_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (ReportGenerated) RoutingKey() string {
	return RoutingKeyReportGenerated
}

func encode(event Event) ([]byte, error) {
	return json.Marshal(event)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
