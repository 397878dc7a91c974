package loader

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// HTTP header constants.
const (
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentEncoding = "Content-Encoding"
	HeaderUserAgent       = "User-Agent"

	EncodingGzip   = "gzip"
	EncodingBrotli = "br"

	acceptEncoding = "gzip, br"
)

// Source opens the raw dataset document.
type Source interface {
	// Name returns the source kind ("http", "file", "stdin").
	Name() string

	// Location identifies what is read, for logs and errors.
	Location() string

	// Open returns the document body. The caller closes it.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// HTTPConfig configures the HTTP source.
type HTTPConfig struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger

	// Client overrides the underlying client (tests).
	Client *http.Client
}

// NewSource creates the Source for a location: an http(s) URL, a file://
// URL or plain path, or "-" for standard input.
func NewSource(location string, cfg HTTPConfig) (Source, error) {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return nil, &SourceError{Location: location, Message: "no dataset location configured"}
	case location == "-":
		return NewStdinSource(os.Stdin), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		if _, err := url.ParseRequestURI(location); err != nil {
			return nil, &SourceError{Location: location, Message: "invalid URL", Err: err}
		}
		return NewHTTPSource(location, cfg), nil
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, &SourceError{Location: location, Message: "invalid file URL", Err: err}
		}
		return NewFileSource(u.Path), nil
	case strings.Contains(location, "://"):
		return nil, &SourceError{Location: location, Message: "unsupported scheme"}
	default:
		return NewFileSource(location), nil
	}
}

// SourceError represents a source configuration error.
type SourceError struct {
	Location string
	Message  string
	Err      error
}

func (e *SourceError) Error() string {
	msg := e.Message
	if e.Location != "" {
		msg += " " + fmt.Sprintf("%q", e.Location)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// HTTPSource fetches the dataset with a single GET.
type HTTPSource struct {
	url       string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

// NewHTTPSource creates an HTTPSource for rawURL.
func NewHTTPSource(rawURL string, cfg HTTPConfig) *HTTPSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPSource{
		url:       rawURL,
		userAgent: cfg.UserAgent,
		client:    client,
		logger:    logger,
	}
}

// Name returns the source kind.
func (s *HTTPSource) Name() string { return "http" }

// Location returns the URL.
func (s *HTTPSource) Location() string { return s.url }

// Open performs the GET. Any non-2xx status is a *FetchError.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, &FetchError{Location: s.url, Err: fmt.Errorf("creating request: %w", err)}
	}
	if s.userAgent != "" {
		req.Header.Set(HeaderUserAgent, s.userAgent)
	}
	req.Header.Set(HeaderAcceptEncoding, acceptEncoding)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Location: s.url, Err: err}
	}

	s.logger.Debug("dataset request completed",
		slog.String("url", s.url),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.String("content_encoding", resp.Header.Get(HeaderContentEncoding)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{Location: s.url, Status: resp.StatusCode}
	}

	body, err := decompress(resp)
	if err != nil {
		resp.Body.Close()
		return nil, &FetchError{Location: s.url, Err: err}
	}
	return body, nil
}

// decompress wraps the response body according to its Content-Encoding.
func decompress(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(resp.Header.Get(HeaderContentEncoding)) {
	case "", "identity":
		return resp.Body, nil
	case EncodingGzip:
		reader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("opening gzip body: %w", err)
		}
		return &decompressReader{reader: reader, closer: resp.Body}, nil
	case EncodingBrotli:
		return &decompressReader{reader: brotli.NewReader(resp.Body), closer: resp.Body}, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get(HeaderContentEncoding))
	}
}

// decompressReader reads decoded bytes and closes the underlying body.
type decompressReader struct {
	reader io.Reader
	closer io.Closer
}

func (d *decompressReader) Read(p []byte) (int, error) {
	return d.reader.Read(p)
}

func (d *decompressReader) Close() error {
	if c, ok := d.reader.(io.Closer); ok {
		c.Close()
	}
	return d.closer.Close()
}

// FileSource reads the dataset from a local file, such as a checkout of the
// dataset repository.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source kind.
func (s *FileSource) Name() string { return "file" }

// Location returns the path.
func (s *FileSource) Location() string { return s.path }

// Open opens the file.
func (s *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Location: s.path, Err: err}
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &FetchError{Location: s.path, Err: err}
	}
	return f, nil
}

// StdinSource reads the dataset from a reader, normally os.Stdin.
type StdinSource struct {
	reader io.Reader
}

// NewStdinSource creates a StdinSource reading from r.
func NewStdinSource(r io.Reader) *StdinSource {
	return &StdinSource{reader: r}
}

// Name returns the source kind.
func (s *StdinSource) Name() string { return "stdin" }

// Location returns "stdin".
func (s *StdinSource) Location() string { return "stdin" }

// Open returns the reader. Closing it does not close standard input.
func (s *StdinSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Location: "stdin", Err: err}
	}
	return io.NopCloser(s.reader), nil
}
