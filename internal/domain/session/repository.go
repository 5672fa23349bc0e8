package session

import (
	"context"
	"time"
)

// Repository describes session persistence needs from use cases.
type Repository interface {
	// Snapshots returns the sessions selected by q, newest first.
	Snapshots(ctx context.Context, q Query) ([]Session, error)

	// Latest returns the most recent session time matching q, or the
	// zero time when no session matches.
	Latest(ctx context.Context, q LatestQuery) (time.Time, error)

	Save(ctx context.Context, s Session) (Session, error)
}
