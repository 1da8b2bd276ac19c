package contents

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/scrobstash/scrobstash/internal/scrobble"
)

const (
	DefaultBaseURL = "https://api.github.com/repos"
	DefaultTimeout = 10 * time.Second

	// drained from each response so connections can be reused
	maxDrainBytes = 64 << 10
)

// DispatcherConfig holds the settings shared by every dispatch.
type DispatcherConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	// Timeout bounds a whole batch, not each request.
	Timeout       time.Duration
	Layout        PathLayout
	Committer     Committer
	AcceptCreated bool
	Logger        *slog.Logger
}

// Dispatcher writes one event to every destination concurrently.
type Dispatcher struct {
	client    *http.Client
	baseURL   string
	timeout   time.Duration
	layout    PathLayout
	committer Committer
	success   func(int) bool
	logger    *slog.Logger
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	layout := cfg.Layout
	if layout == "" {
		layout = LayoutLegacy
	}
	committer := cfg.Committer
	if committer.Name == "" {
		committer.Name = DefaultCommitterName
	}
	if committer.Email == "" {
		committer.Email = DefaultCommitterEmail
	}
	success := StatusOK
	if cfg.AcceptCreated {
		success = StatusOKOrCreated
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		client:    client,
		baseURL:   baseURL,
		timeout:   timeout,
		layout:    layout,
		committer: committer,
		success:   success,
		logger:    logger,
	}
}

// Dispatch writes event to all destinations and returns the aggregate outcome.
// With no destinations it returns OutcomeAuthMissing without building a request.
// The timeout context is handed to every request, so expiry aborts in-flight writes.
func (d *Dispatcher) Dispatch(ctx context.Context, event scrobble.Event, destinations Destinations) scrobble.Outcome {
	if destinations.IsEmpty() {
		d.logger.Warn("no contents destinations configured", slog.String("event", event.Name))
		return scrobble.OutcomeAuthMissing
	}

	body, err := BuildRequest(event, d.committer)
	if err != nil {
		d.logger.Error("build contents request", slog.String("event", event.Name), slog.Any("err", err))
		return scrobble.OutcomeFailed
	}
	path := d.Path(event)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	p := pool.NewWithResults[Delivery]().WithContext(ctx)
	for _, dest := range destinations {
		dest := dest
		p.Go(func(ctx context.Context) (Delivery, error) {
			return d.put(ctx, dest, path, body), nil
		})
	}
	deliveries, _ := p.Wait()

	outcome := Aggregate(d.logger, event.Name, deliveries, d.success)
	d.logger.Debug("contents dispatch",
		slog.String("event", event.Name),
		slog.String("path", path),
		slog.Int("destinations", len(destinations)),
		slog.String("outcome", outcome.String()))
	return outcome
}

func (d *Dispatcher) put(ctx context.Context, dest Destination, path string, body []byte) Delivery {
	out := Delivery{Destination: dest}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, d.TargetURL(dest, path), bytes.NewReader(body))
	if err != nil {
		out.Err = errors.Wrap(err, "build request")
		return out
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+dest.Token)

	resp, err := d.client.Do(req)
	if err != nil {
		out.Err = err
		return out
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	out.StatusCode = resp.StatusCode
	return out
}

// TargetURL returns <base>/<owner>/<repo>/contents/<path>.
func (d *Dispatcher) TargetURL(dest Destination, path string) string {
	return d.baseURL + "/" + url.PathEscape(dest.Owner) + "/" + url.PathEscape(dest.Repo) + "/contents/" + path
}

// Path returns where event is stored inside each destination.
func (d *Dispatcher) Path(event scrobble.Event) string {
	return DerivePath(d.layout, event.Name, event.Timestamp)
}
