package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// snapshotsKept bounds how many snapshots per source survive a save.
const snapshotsKept = 5

// GormStorage backs Storage with sqlite or postgres through gorm.
type GormStorage struct {
	db    *gorm.DB
	locks sessionLocks[*sql.Conn]
}

func NewGormStorage(driver, dsn string) (*GormStorage, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "file:locadora.db?_pragma=busy_timeout(5000)"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&ListingSnapshot{}, &ScheduledJob{})
}

func (s *GormStorage) GetListingSnapshot(ctx context.Context, source string) (*ListingSnapshot, error) {
	var snap ListingSnapshot
	err := s.db.WithContext(ctx).
		Where("source = ?", source).
		Order("fetched_at DESC, id DESC").
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *GormStorage) SaveListingSnapshot(ctx context.Context, snap ListingSnapshot) error {
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}
	snap.ID = 0
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&snap).Error; err != nil {
			return err
		}
		var keep []uint
		if err := tx.Model(&ListingSnapshot{}).
			Where("source = ?", snap.Source).
			Order("fetched_at DESC, id DESC").
			Limit(snapshotsKept).
			Pluck("id", &keep).Error; err != nil {
			return err
		}
		return tx.Where("source = ? AND id NOT IN ?", snap.Source, keep).
			Delete(&ListingSnapshot{}).Error
	})
}

func (s *GormStorage) Close() error {
	s.locks.drain(func(c *sql.Conn) { _ = c.Close() })
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AcquireAdvisoryLock takes a postgres session-level lock on a dedicated
// connection held until ReleaseAdvisoryLock. sqlite runs single instance and
// always grants it.
func (s *GormStorage) AcquireAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	if s.db.Dialector.Name() != "postgres" {
		return true, nil
	}
	return s.locks.acquire(key, func() (*sql.Conn, bool, error) {
		sqlDB, err := s.db.DB()
		if err != nil {
			return nil, false, err
		}
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			return nil, false, err
		}
		var ok bool
		if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok); err != nil || !ok {
			_ = conn.Close()
			return nil, false, err
		}
		return conn, true, nil
	})
}

func (s *GormStorage) ReleaseAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	if s.db.Dialector.Name() != "postgres" {
		return true, nil
	}
	return s.locks.release(key, func(conn *sql.Conn) (bool, error) {
		defer conn.Close()
		var ok bool
		err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
		return ok, err
	})
}

func (s *GormStorage) UpdateScheduledJob(ctx context.Context, name string, started time.Time, dur time.Duration, success bool, errMsg string) error {
	job := newScheduledJob(name, started, dur, success, errMsg)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(&job).Error
}

func (s *GormStorage) GetScheduledJob(ctx context.Context, name string) (*ScheduledJob, error) {
	var job ScheduledJob
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
