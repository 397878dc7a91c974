package loader

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `[
  {"name":"Toyota","slug":"toyota","image":{"optimized":"https://x/toyota.png","source":"https://toyota.com"}},
  {"name":"Ford","slug":"ford","image":{"thumb":"https://x/ford-t.png"}}
]`

func TestHTTPSource_Fetch(t *testing.T) {
	var gotUA, gotAE string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get(HeaderUserAgent)
		gotAE = r.Header.Get(HeaderAcceptEncoding)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, HTTPConfig{Timeout: 5 * time.Second, UserAgent: "carlogos-test"})
	res, err := New(src, nil).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Logos, 2)
	assert.Equal(t, "Toyota", res.Logos[0].Name)
	assert.Equal(t, "ford", res.Logos[1].Slug)
	assert.Equal(t, "https://x/ford-t.png", res.Logos[1].Image.Thumb)

	assert.Equal(t, "carlogos-test", gotUA)
	assert.Equal(t, acceptEncoding, gotAE)

	assert.Equal(t, "http", res.Info.Source)
	assert.Equal(t, srv.URL, res.Info.Location)
	assert.Equal(t, int64(len(sampleDoc)), res.Info.Bytes)
	assert.Equal(t, 2, res.Info.Count)
	assert.Len(t, res.Info.ID, 26)
}

func TestHTTPSource_Status500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, res)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusInternalServerError, fe.Status)
	assert.Contains(t, err.Error(), "status: 500")
	assert.True(t, IsFetchError(err))
}

func TestHTTPSource_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.Status)
}

func TestHTTPSource_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer srv.Close()

	_, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.Error(t, err)
	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Zero(t, fe.Status)
	assert.Contains(t, err.Error(), "decoding logos")
}

func TestHTTPSource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(NewHTTPSource(url, HTTPConfig{Timeout: time.Second}), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
}

func TestHTTPSource_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(sampleDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentEncoding, EncodingGzip)
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	res, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Logos, 2)
	assert.Equal(t, int64(len(sampleDoc)), res.Info.Bytes)
}

func TestHTTPSource_Brotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte(sampleDoc))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentEncoding, EncodingBrotli)
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	res, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Toyota", res.Logos[0].Name)
}

func TestHTTPSource_UnsupportedEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderContentEncoding, "zstd")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	_, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content encoding")
}

func TestHTTPSource_NullDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))
	defer srv.Close()

	_, err := New(NewHTTPSource(srv.URL, HTTPConfig{}), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, ErrNotArray)
}

func TestFetch_EmptyArray(t *testing.T) {
	res, err := New(NewStdinSource(strings.NewReader("[]\n")), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res.Logos)
	assert.Empty(t, res.Logos)
}

func TestFetch_TrailingContent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"html after array", `[{"name":"Toyota","slug":"toyota"}] <html>oops`},
		{"second array", `[{"name":"Toyota","slug":"toyota"}][]`},
		{"second value", `[] 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(NewStdinSource(strings.NewReader(tt.doc)), nil).Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, IsFetchError(err))
		})
	}
}

func TestFetch_TrailingWhitespace(t *testing.T) {
	res, err := New(NewStdinSource(strings.NewReader(sampleDoc+"\n\n  ")), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Logos, 2)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	res, err := New(NewFileSource(path), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Logos, 2)
	assert.Equal(t, "file", res.Info.Source)

	_, err = New(NewFileSource(path+".missing"), nil).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStdinSource(t *testing.T) {
	res, err := New(NewStdinSource(strings.NewReader(sampleDoc)), nil).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Logos, 2)
	assert.Equal(t, "stdin", res.Info.Location)
}

func TestSource_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(NewStdinSource(strings.NewReader(sampleDoc)), nil).Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewSource(t *testing.T) {
	tests := []struct {
		location string
		wantName string
		wantErr  bool
	}{
		{location: "https://example.com/data.json", wantName: "http"},
		{location: "http://localhost:8080/data.json", wantName: "http"},
		{location: "file:///tmp/data.json", wantName: "file"},
		{location: "./logos/data.json", wantName: "file"},
		{location: "-", wantName: "stdin"},
		{location: "", wantErr: true},
		{location: "ftp://example.com/data.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			src, err := NewSource(tt.location, HTTPConfig{})
			if tt.wantErr {
				require.Error(t, err)
				var se *SourceError
				assert.True(t, errors.As(err, &se))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}

	src, err := NewSource("file:///tmp/data.json", HTTPConfig{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/data.json", src.Location())
}
