package listings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("Carro\nMobi\n"))
	}))
	defer srv.Close()

	src, err := NewSource(srv.URL, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, srv.URL, src.Name())

	body, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Carro\nMobi\n", string(body))
}

func TestHTTPSource_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL, Client: srv.Client()}
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPSource_TooLarge(t *testing.T) {
	body := "Carro\nMobi\nOnix\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	src := &HTTPSource{URL: srv.URL, Client: srv.Client(), MaxBytes: int64(len(body)) - 1}
	_, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, ErrSheetTooLarge)

	src.MaxBytes = int64(len(body))
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frota.csv")
	require.NoError(t, os.WriteFile(path, []byte("Carro\nOnix\n"), 0o644))

	for _, raw := range []string{path, "file://" + path} {
		src, err := NewSource(raw, nil)
		require.NoError(t, err)
		require.IsType(t, &FileSource{}, src)

		body, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Carro\nOnix\n", string(body))
	}

	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}).Fetch(context.Background())
	assert.Error(t, err)
}

func TestNewSource_Errors(t *testing.T) {
	_, err := NewSource("  ", nil)
	assert.Error(t, err)

	_, err = NewSource("ftp://example.com/frota.csv", nil)
	assert.Error(t, err)
}
