// Package loader fetches the logo dataset.
//
// A fetch is a single attempt: any non-success status, transport error or
// malformed document is reported as a *FetchError and never retried.
package loader

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/carlogos/internal/model"
)

// MaxDocumentSize bounds how much of a response is read.
const MaxDocumentSize = 32 << 20

// ErrNotArray is returned when the document is valid JSON but not an array.
var ErrNotArray = errors.New("document is not an array of logos")

// FetchError is the single error kind of the loader.
type FetchError struct {
	Location string
	Status   int // Non-zero for an unsuccessful HTTP status
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: HTTP error! status: %d", e.Location, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.Location, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is, or wraps, a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// FetchInfo describes one completed fetch.
type FetchInfo struct {
	ID        string // ULID, for correlating log lines
	Source    string
	Location  string
	Bytes     int64
	Count     int
	Duration  time.Duration
	FetchedAt time.Time
}

// Result is the outcome of a successful fetch.
type Result struct {
	Logos []model.Logo
	Info  FetchInfo
}

// Loader fetches and decodes the dataset from a Source.
type Loader struct {
	source Source
	logger *slog.Logger
}

// New creates a Loader.
func New(source Source, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Source returns the configured source.
func (l *Loader) Source() Source {
	return l.source
}

// Fetch reads the dataset once. The returned logos keep document order.
func (l *Loader) Fetch(ctx context.Context) (*Result, error) {
	id := newFetchID()
	start := time.Now()

	l.logger.Debug("fetching logos",
		slog.String("fetch_id", id),
		slog.String("source", l.source.Name()),
		slog.String("location", l.source.Location()),
	)

	body, err := l.source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	counter := &countingReader{reader: io.LimitReader(body, MaxDocumentSize)}
	logos, err := decode(counter)
	if err != nil {
		return nil, &FetchError{Location: l.source.Location(), Err: err}
	}

	info := FetchInfo{
		ID:        id,
		Source:    l.source.Name(),
		Location:  l.source.Location(),
		Bytes:     counter.n,
		Count:     len(logos),
		Duration:  time.Since(start),
		FetchedAt: time.Now(),
	}

	l.logger.Debug("fetched logos",
		slog.String("fetch_id", id),
		slog.Int("count", info.Count),
		slog.Int64("bytes", info.Bytes),
		slog.Duration("duration", info.Duration),
	)

	return &Result{Logos: logos, Info: info}, nil
}

// decode parses a JSON array of logo records. The document must be exactly
// one array; null and trailing content are rejected.
func decode(r io.Reader) ([]model.Logo, error) {
	dec := json.NewDecoder(r)

	var logos []model.Logo
	if err := dec.Decode(&logos); err != nil {
		return nil, fmt.Errorf("decoding logos: %w", err)
	}
	if logos == nil {
		return nil, ErrNotArray
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected content after array")
		}
		return nil, fmt.Errorf("decoding logos: %w", err)
	}
	return logos, nil
}

func newFetchID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return ""
	}
	return id.String()
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}
