package database

import (
	"time"
)

// Snapshot is one persisted capture of a standard's latest proposals.
// Payload holds the serialized item list exactly as it was published to
// the snapshot file, so the API can replay it without refetching.
type Snapshot struct {
	ID          int64
	Standard    string
	Source      string
	GeneratedAt time.Time
	ItemCount   int
	Payload     string
	CreatedAt   time.Time
}
