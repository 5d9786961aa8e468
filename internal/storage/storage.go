package storage

import (
	"context"
	"time"
)

// Storage abstracts persistence for listing snapshots and worker bookkeeping.
type Storage interface {
	// Listing snapshots. A nil snapshot with a nil error means none stored.
	GetListingSnapshot(ctx context.Context, source string) (*ListingSnapshot, error)
	SaveListingSnapshot(ctx context.Context, snap ListingSnapshot) error

	// Advisory locks keep replicas from refreshing at the same time.
	// Backends without a shared lock always succeed.
	AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error)
	ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error)

	UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error
	GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error)

	Ping(ctx context.Context) error
	// Close releases any resources (no-op for in-memory).
	Close() error
}
