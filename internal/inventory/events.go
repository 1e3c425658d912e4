package inventory

import (
	"encoding/json"
	"time"
)

const EventActivityRecorded = "ActivityRecorded"

// Envelope wraps every event published to Kafka.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type ActivityRecordedPayload struct {
	Activity Activity `json:"activity"`
}
