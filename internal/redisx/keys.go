package redisx

import "time"

const (
	// Login session: session:{token} -> user id
	KeySession = "session:%s"

	// Cached dashboard payload (JSON): dashboard
	KeyDashboard = "dashboard"

	// Capped list of recent activity JSON, newest first. Maintained by the
	// feed consumer.
	KeyRecentActivity = "activity:recent"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession   = 24 * time.Hour
	TTLDashboard = time.Minute
	TTLDedup     = 48 * time.Hour
)

// RecentActivityMax caps the feed cache length.
const RecentActivityMax = 50
