package topo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dotmap/internal/hash"
	"dotmap/internal/options"
)

const defaultTimeout = 10 * time.Second

// Attempt records the outcome of one fetch attempt for diagnostics.
type Attempt struct {
	URL     string
	Status  int // HTTP status code, 0 if the request never completed
	Reason  string
	Elapsed time.Duration
}

func (a Attempt) String() string {
	if a.Status != 0 {
		return fmt.Sprintf("%s: status %d, %s (%s)", a.URL, a.Status, a.Reason, a.Elapsed.Round(time.Millisecond))
	}

	return fmt.Sprintf("%s: %s (%s)", a.URL, a.Reason, a.Elapsed.Round(time.Millisecond))
}

// ExhaustedError is returned when every candidate source failed. It wraps
// ErrSourcesExhausted and carries the per-attempt summary.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v after %d attempts", ErrSourcesExhausted, len(e.Attempts))
	for _, a := range e.Attempts {
		sb.WriteString("; ")
		sb.WriteString(a.String())
	}

	return sb.String()
}

func (e *ExhaustedError) Unwrap() error {
	return ErrSourcesExhausted
}

// Fetcher retrieves a topology document from a prioritized list of mirrors.
//
// Mirrors are tried strictly in order, one in-flight request at a time, each
// bounded by the configured timeout; a mirror is tried exactly once. The
// first response that passes validation wins. Individual mirror failures are
// logged and swallowed; only total exhaustion surfaces to the caller.
type Fetcher struct {
	sources []string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption = options.Option[*Fetcher]

// WithTimeout sets the per-attempt timeout. The timeout bounds the whole
// attempt: connection, response and body read.
func WithTimeout(d time.Duration) FetcherOption {
	return options.New(func(f *Fetcher) error {
		if d <= 0 {
			return fmt.Errorf("fetch timeout must be positive, got %v", d)
		}
		f.timeout = d

		return nil
	})
}

// WithHTTPClient replaces the HTTP client, e.g. to install a proxy or a
// test transport.
func WithHTTPClient(c *http.Client) FetcherOption {
	return options.New(func(f *Fetcher) error {
		if c == nil {
			return fmt.Errorf("http client must not be nil")
		}
		f.client = c

		return nil
	})
}

// WithFetchLogger sets the diagnostic logger. Defaults to slog.Default().
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return options.NoError(func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	})
}

// NewFetcher creates a Fetcher over the given candidate source URLs,
// in priority order.
func NewFetcher(sources []string, opts ...FetcherOption) (*Fetcher, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one topology source is required")
	}

	f := &Fetcher{
		sources: append([]string(nil), sources...),
		timeout: defaultTimeout,
		client:  http.DefaultClient,
		logger:  slog.Default(),
	}
	if err := options.Apply(f, opts...); err != nil {
		return nil, err
	}

	return f, nil
}

// Fetch tries each candidate in order and returns the first document that
// passes shape validation. If every candidate fails it returns an
// *ExhaustedError wrapping ErrSourcesExhausted.
func (f *Fetcher) Fetch(ctx context.Context) (*Document, error) {
	attempts := make([]Attempt, 0, len(f.sources))

	for _, url := range f.sources {
		doc, attempt := f.tryOne(ctx, url)
		attempts = append(attempts, attempt)

		if doc != nil {
			f.logger.Info("topology fetched",
				slog.String("url", url),
				slog.Int("arcs", len(doc.Arcs)),
				slog.Int("geometries", len(doc.Countries().Geometries)),
				slog.String("digest", fmt.Sprintf("%016x", doc.Digest)),
				slog.Duration("elapsed", attempt.Elapsed),
			)

			return doc, nil
		}

		f.logger.Warn("topology source failed",
			slog.String("url", url),
			slog.Int("status", attempt.Status),
			slog.String("reason", attempt.Reason),
			slog.Duration("elapsed", attempt.Elapsed),
		)

		// A cancelled parent context fails every remaining mirror the same
		// way; stop instead of burning through the list.
		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

// tryOne performs a single bounded fetch attempt against url.
func (f *Fetcher) tryOne(ctx context.Context, url string) (*Document, Attempt) {
	start := time.Now()
	attempt := Attempt{URL: url}

	fail := func(reason string) (*Document, Attempt) {
		attempt.Reason = reason
		attempt.Elapsed = time.Since(start)

		return nil, attempt
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fail(fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fail(fmt.Sprintf("request: %v", err))
	}
	defer resp.Body.Close()

	attempt.Status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail("non-success status")
	}

	if ct := resp.Header.Get("Content-Type"); !isStructuredContentType(ct) {
		return fail(fmt.Sprintf("unexpected content type %q", ct))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Sprintf("read body: %v", err))
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return fail(fmt.Sprintf("parse body: %v", err))
	}
	if err := doc.Validate(); err != nil {
		return fail(fmt.Sprintf("invalid document: %v", err))
	}

	doc.Source = url
	doc.Digest = hash.Digest(body)
	attempt.Reason = "ok"
	attempt.Elapsed = time.Since(start)

	return &doc, attempt
}

// isStructuredContentType accepts the JSON content types mirrors actually
// serve for topology documents.
func isStructuredContentType(ct string) bool {
	ct = strings.ToLower(ct)

	return strings.Contains(ct, "json")
}
