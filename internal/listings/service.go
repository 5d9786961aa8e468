package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bher20/locadora/internal/logger"
	"github.com/bher20/locadora/internal/metrics"
	"github.com/bher20/locadora/internal/storage"
	"github.com/bher20/locadora/pkg/shared"
)

var (
	// ErrNoListings means no listing data could be loaded from any source.
	ErrNoListings = errors.New("listings: no listing data available")
	// ErrNotFound means the requested vehicle is not in the table.
	ErrNotFound = errors.New("listings: vehicle not found")
)

// Config controls how the listing service caches the spreadsheet.
type Config struct {
	// CacheTTL is how long a stored snapshot is served without refetching.
	// Zero always fetches, keeping snapshots only as a fallback.
	CacheTTL time.Duration
	// MirrorPath optionally mirrors the last good CSV to disk.
	MirrorPath string
}

// Service loads the listing table from a Source, caching parsed snapshots in
// storage. It is safe for concurrent use.
type Service struct {
	cfg   Config
	src   Source
	store storage.Storage
	log   *slog.Logger
	now   func() time.Time

	// fetches collapses concurrent refreshes of the same source into one.
	fetches singleflight.Group
}

// NewService returns a Service backed by an in-memory snapshot cache.
func NewService(cfg Config, src Source) *Service {
	return NewServiceWithStorage(cfg, src, storage.NewMemory())
}

// NewServiceWithStorage returns a Service that caches snapshots in st.
func NewServiceWithStorage(cfg Config, src Source, st storage.Storage) *Service {
	return &Service{
		cfg:   cfg,
		src:   src,
		store: st,
		log:   logger.With("listings"),
		now:   time.Now,
	}
}

// SourceName identifies the configured spreadsheet.
func (s *Service) SourceName() string { return s.src.Name() }

// Table returns the listing table. It never fails: when the source cannot be
// loaded it falls back to the last snapshot, then the mirror file, and finally
// an empty table. Fallbacks are marked Stale with a Warning.
func (s *Service) Table(ctx context.Context) *Table {
	snap, err := s.store.GetListingSnapshot(ctx, s.src.Name())
	if err != nil {
		s.log.Warn("listings: read snapshot failed", "error", err)
		snap = nil
	}

	if snap != nil && s.cfg.CacheTTL > 0 && s.now().Sub(snap.FetchedAt) < s.cfg.CacheTTL {
		if t, err := s.decodeSnapshot(snap); err == nil {
			metrics.ObserveListings("cached", len(t.Listings), t.FetchedAt)
			return t
		}
	}

	t, fetchErr := s.fetch(ctx)
	if fetchErr == nil {
		return t
	}
	s.log.Warn("listings: fetch failed, using fallback", "source", s.src.Name(), "error", fetchErr)

	if snap != nil {
		if t, err := s.decodeSnapshot(snap); err == nil {
			t.Stale = true
			t.Warning = fmt.Sprintf("Não foi possível atualizar a planilha (%v); usando cópia de %s.",
				fetchErr, t.FetchedAt.Format("02/01/2006 15:04"))
			metrics.ObserveListings("snapshot", len(t.Listings), t.FetchedAt)
			return t
		}
	}

	if t, err := s.readMirror(); err == nil {
		t.Warning = fmt.Sprintf("Não foi possível atualizar a planilha (%v); usando cópia local.", fetchErr)
		metrics.ObserveListings("mirror", len(t.Listings), t.FetchedAt)
		return t
	}

	metrics.ObserveListings("empty", 0, time.Time{})
	return &Table{
		Source:   s.src.Name(),
		Stale:    true,
		Warning:  fmt.Sprintf("Não foi possível carregar a planilha de veículos: %v", fetchErr),
		Listings: []Listing{},
	}
}

// Get returns the named listing along with the table it was found in.
func (s *Service) Get(ctx context.Context, name string) (Listing, *Table, error) {
	t := s.Table(ctx)
	if t.Empty() {
		return Listing{}, t, ErrNoListings
	}
	l, ok := t.Get(name)
	if !ok {
		return Listing{}, t, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return l, t, nil
}

// ForceRefresh fetches the source now, bypassing the cache. Unlike Table it
// reports failures instead of falling back.
func (s *Service) ForceRefresh(ctx context.Context) (*Table, error) {
	return s.fetch(ctx)
}

// fetch runs refresh at most once per source at a time; concurrent callers
// wait for and share the in-flight result. The fetch itself is detached from
// ctx so one caller giving up does not fail the others, but that caller
// returns as soon as ctx is done.
func (s *Service) fetch(ctx context.Context) (*Table, error) {
	ch := s.fetches.DoChan(s.src.Name(), func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		t := *res.Val.(*Table)
		return &t, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh fetches, parses and stores a new snapshot.
func (s *Service) refresh(ctx context.Context) (*Table, error) {
	raw, err := s.src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	items, err := ParseCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	t := &Table{
		Source:    s.src.Name(),
		FetchedAt: s.now(),
		Listings:  items,
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := s.store.SaveListingSnapshot(ctx, storage.ListingSnapshot{
			Source:    t.Source,
			Payload:   payload,
			RowCount:  len(items),
			FetchedAt: t.FetchedAt,
		}); err != nil {
			s.log.Warn("listings: save snapshot failed", "error", err)
		}
	}

	if s.cfg.MirrorPath != "" {
		if err := shared.WriteFileAtomically(s.cfg.MirrorPath, bytes.NewReader(raw)); err != nil {
			s.log.Warn("listings: write mirror failed", "path", s.cfg.MirrorPath, "error", err)
		}
	}

	s.log.Info("listings: refreshed", "source", t.Source, "count", len(items))
	metrics.ObserveListings("fetched", len(items), t.FetchedAt)
	return t, nil
}

func (s *Service) decodeSnapshot(snap *storage.ListingSnapshot) (*Table, error) {
	var items []Listing
	if err := json.Unmarshal(snap.Payload, &items); err != nil {
		s.log.Warn("listings: decode snapshot failed", "error", err)
		return nil, err
	}
	return &Table{
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Listings:  items,
	}, nil
}

func (s *Service) readMirror() (*Table, error) {
	if s.cfg.MirrorPath == "" {
		return nil, os.ErrNotExist
	}
	f, err := os.Open(s.cfg.MirrorPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := ParseCSV(f)
	if err != nil {
		return nil, err
	}
	var fetched time.Time
	if fi, err := f.Stat(); err == nil {
		fetched = fi.ModTime()
	}
	return &Table{
		Source:    "file://" + s.cfg.MirrorPath,
		FetchedAt: fetched,
		Stale:     true,
		Listings:  items,
	}, nil
}
