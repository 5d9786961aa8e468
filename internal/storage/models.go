package storage

import "time"

// ListingSnapshot stores a previously parsed listing table for a source.
type ListingSnapshot struct {
	ID        uint      `json:"-" gorm:"primaryKey;column:id"`
	Source    string    `json:"source" gorm:"column:source;index"`
	Payload   []byte    `json:"payload" gorm:"column:payload"`
	RowCount  int       `json:"row_count" gorm:"column:row_count"`
	FetchedAt time.Time `json:"fetched_at" gorm:"column:fetched_at;index"`
}

func (ListingSnapshot) TableName() string { return "listing_snapshots" }

// ScheduledJob records the outcome of the last run of a background job.
type ScheduledJob struct {
	Name           string    `json:"name" gorm:"primaryKey;column:name"`
	LastRunAt      time.Time `json:"last_run_at" gorm:"column:last_run_at"`
	LastDurationMs int64     `json:"last_duration_ms" gorm:"column:last_duration_ms"`
	LastSuccess    bool      `json:"last_success" gorm:"column:last_success"`
	LastError      string    `json:"last_error,omitempty" gorm:"column:last_error"`
}

func (ScheduledJob) TableName() string { return "scheduled_jobs" }

func newScheduledJob(name string, started time.Time, dur time.Duration, success bool, errMsg string) ScheduledJob {
	return ScheduledJob{
		Name:           name,
		LastRunAt:      started,
		LastDurationMs: dur.Milliseconds(),
		LastSuccess:    success,
		LastError:      errMsg,
	}
}
