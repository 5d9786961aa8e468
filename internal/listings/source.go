package listings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// maxSheetBytes caps how much of a remote spreadsheet is read.
const maxSheetBytes = 8 << 20

// ErrSheetTooLarge means the remote spreadsheet exceeded the size cap.
var ErrSheetTooLarge = errors.New("listings: spreadsheet exceeds size limit")

// Source yields the raw CSV bytes of the listing spreadsheet.
type Source interface {
	// Name identifies the source; it keys cached snapshots.
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPSource downloads the spreadsheet from a published URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
	// MaxBytes overrides maxSheetBytes when positive.
	MaxBytes int64
}

func (s *HTTPSource) Name() string { return s.URL }

// Fetch downloads the CSV export.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = DefaultHTTPClient()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("listings source returned status %d", resp.StatusCode)
	}

	limit := s.MaxBytes
	if limit <= 0 {
		limit = maxSheetBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrSheetTooLarge, limit)
	}
	return body, nil
}

// FileSource reads the spreadsheet from a local CSV file.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string { return "file://" + s.Path }

// Fetch reads the file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read listings file: %w", err)
	}
	return b, nil
}

// NewSource picks a Source for raw: http(s) URLs are downloaded with client,
// file:// URLs and plain paths are read from disk.
func NewSource(raw string, client *http.Client) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("listings: empty source")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("listings: parse source %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return &HTTPSource{URL: raw, Client: client}, nil
	case "file":
		return &FileSource{Path: u.Path}, nil
	case "":
		return &FileSource{Path: raw}, nil
	default:
		return nil, fmt.Errorf("listings: unsupported source scheme %q", u.Scheme)
	}
}
