package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical wrapper for events published on NATS.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// ListingSummary is the per-category outcome of a listing run.
type ListingSummary struct {
	Key          string `json:"key"`
	Kind         string `json:"kind"`
	Status       string `json:"status"`
	ProductCount int    `json:"product_count"`
	Reason       string `json:"reason,omitempty"`
	Cached       bool   `json:"cached"`
}

// ListingRun records one pass over a set of categories.
type ListingRun struct {
	RunID      uuid.UUID        `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	Duration   time.Duration    `json:"duration"`
	Categories []ListingSummary `json:"categories"`
}

// Counts returns the number of categories per status.
func (r ListingRun) Counts() map[string]int {
	out := make(map[string]int, 3)
	for _, c := range r.Categories {
		out[c.Status]++
	}
	return out
}
