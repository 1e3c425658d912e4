package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/stockdesk/stockdesk/internal/inventory"
	kafkax "github.com/stockdesk/stockdesk/internal/kafka"
	"github.com/stockdesk/stockdesk/internal/redisx"
)

// Service consumes ActivityRecorded events and keeps the Redis
// recent-activity list warm for the dashboard. The store stays the source
// of truth; this cache only serves the fast path.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleActivityRecorded is installed as the consumer handler.
func (s *Service) HandleActivityRecorded(ctx context.Context, m kafkago.Message) error {
	var env inventory.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != inventory.EventActivityRecorded {
		return nil
	}

	// dedup on event_id so redelivery does not double the feed
	dkey := fmt.Sprintf(redisx.KeyDedup, "feed", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[inventory.ActivityRecordedPayload](env.Payload)
	if err != nil {
		return err
	}
	b, err := json.Marshal(p.Activity)
	if err != nil {
		return err
	}
	return redisx.PushRecent(ctx, s.Redis, b)
}
