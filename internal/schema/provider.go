package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/plexanisync/mappingcheck/internal/logging"
)

// maxSchemaSize bounds the response body read from the remote endpoint.
const maxSchemaSize = 8 << 20

// ErrOffline is wrapped by the FetchError returned when the cache is missing
// and fetching is disabled.
var ErrOffline = errors.New("schema cache missing and offline mode is enabled")

// FetchError reports a failed download of the remote schema. It is fatal for
// the run.
type FetchError struct {
	URL string
	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Option configures a Provider.
type Option func(*Provider)

// WithClient sets the HTTP client used for the remote fetch.
func WithClient(c *http.Client) Option {
	return func(p *Provider) {
		p.client = c
	}
}

// WithOffline disables the remote fetch.
func WithOffline(offline bool) Option {
	return func(p *Provider) {
		p.offline = offline
	}
}

// WithLogger sets the logger for fetch and save messages.
func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithUserAgent sets the User-Agent header of the remote fetch.
func WithUserAgent(ua string) Option {
	return func(p *Provider) {
		p.userAgent = ua
	}
}

// Provider obtains the schema, preferring the local cache over the network.
type Provider struct {
	CachePath string
	URL       string

	client    *http.Client
	offline   bool
	logger    *log.Logger
	userAgent string
}

// NewProvider creates a provider for the given cache path and remote URL.
func NewProvider(cachePath, url string, opts ...Option) *Provider {
	p := &Provider{
		CachePath: cachePath,
		URL:       url,
		client:    http.DefaultClient,
		logger:    logging.Discard(),
		userAgent: "mappingcheck",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the compiled schema. It reads the cache file; only when the
// file does not exist does it fetch the remote schema and write the cache.
// A failed fetch is returned as *FetchError. Any other failure (unreadable
// or corrupt cache, failed cache write, uncompilable schema) is returned as a
// plain error.
func (p *Provider) Load(ctx context.Context) (*Schema, error) {
	raw, err := os.ReadFile(p.CachePath)
	if err == nil {
		s, err := Compile(raw, p.CachePath)
		if err != nil {
			return nil, err
		}
		s.Source = SourceCache
		p.logger.Debug("Using cached schema", "path", p.CachePath)
		return s, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read schema cache: %w", err)
	}

	if p.offline {
		return nil, &FetchError{URL: p.URL, Err: ErrOffline}
	}
	return p.Refresh(ctx)
}

// Refresh fetches the remote schema unconditionally and overwrites the cache.
func (p *Provider) Refresh(ctx context.Context) (*Schema, error) {
	raw, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Infof("Successfully fetched schema from %s", p.URL)

	pretty, err := prettyPrint(raw)
	if err != nil {
		return nil, &FetchError{URL: p.URL, Err: err}
	}
	if err := p.save(pretty); err != nil {
		return nil, err
	}
	p.logger.Infof("Successfully saved schema to %s", p.CachePath)

	s, err := Compile(pretty, p.CachePath)
	if err != nil {
		return nil, err
	}
	s.Source = SourceRemote
	return s, nil
}

// Fetch performs a single GET against the remote URL and returns the body.
// Network errors, non-2xx statuses and bodies that are not JSON yield a
// *FetchError.
func (p *Provider) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, &FetchError{URL: p.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: p.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			URL:        p.URL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSchemaSize))
	if err != nil {
		return nil, &FetchError{URL: p.URL, Err: fmt.Errorf("read response: %w", err)}
	}
	if !json.Valid(body) {
		return nil, &FetchError{URL: p.URL, Err: errors.New("response is not valid JSON")}
	}
	return body, nil
}

// save writes the cache file, creating its directory if needed.
func (p *Provider) save(data []byte) error {
	if dir := filepath.Dir(p.CachePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create schema cache dir: %w", err)
		}
	}
	if err := os.WriteFile(p.CachePath, data, 0644); err != nil {
		return fmt.Errorf("write schema cache: %w", err)
	}
	return nil
}

// prettyPrint re-indents a JSON document with four spaces, keeping key order.
func prettyPrint(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "    "); err != nil {
		return nil, fmt.Errorf("indent schema: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
