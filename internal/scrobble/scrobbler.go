package scrobble

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
)

// Scrobbler is the capability set implemented by every scrobbler family.
type Scrobbler interface {
	// ID returns a unique identifier for this scrobbler instance.
	ID() string
	// Name returns a human-readable name for the scrobbler.
	Name() string
	// IsEnabled returns true if this scrobbler has credentials to talk to.
	IsEnabled() bool

	// Session returns the current session or ErrAuthMissing.
	Session(ctx context.Context) (Session, error)
	AuthURL() string
	ReadyForGrantAccess() bool
	ProfileURL() string

	NowPlaying(ctx context.Context, song Song) Outcome
	Paused(ctx context.Context, song Song) Outcome
	Resumed(ctx context.Context, song Song) Outcome
	// Scrobble reports completed plays. The result holds one outcome per song.
	Scrobble(ctx context.Context, songs []Song, currentlyPlaying bool) []Outcome
	ToggleLove(ctx context.Context, song Song, loved bool) Outcome
}

// Report is the result of one operation on one scrobbler.
type Report struct {
	ScrobblerID string
	Event       string
	Songs       []Song
	Outcomes    []Outcome
	At          time.Time
}

// Outcome returns the first non-OK outcome, or OutcomeOK.
func (r Report) Outcome() Outcome {
	for _, o := range r.Outcomes {
		if o != OutcomeOK {
			return o
		}
	}
	return OutcomeOK
}

// Recorder receives every report produced by a Manager.
type Recorder interface {
	Record(ctx context.Context, r Report) error
}

// Manager coordinates multiple scrobblers, fanning out events to all registered backends.
type Manager struct {
	mu         sync.RWMutex
	scrobblers []Scrobbler
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRecorder hands every report to r after the fan-out completes.
func WithRecorder(r Recorder) ManagerOption {
	return func(m *Manager) { m.recorder = r }
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithClock overrides the clock used to stamp reports.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a new scrobbler manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds a scrobbler to the manager.
func (m *Manager) Register(s Scrobbler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrobblers = append(m.scrobblers, s)
}

// Scrobblers returns all registered scrobblers.
func (m *Manager) Scrobblers() []Scrobbler {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]Scrobbler, len(m.scrobblers))
	copy(result, m.scrobblers)
	return result
}

// EnabledCount returns the number of enabled scrobblers.
func (m *Manager) EnabledCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.scrobblers {
		if s.IsEnabled() {
			count++
		}
	}
	return count
}

func (m *Manager) NowPlaying(ctx context.Context, song Song) []Report {
	return m.fanOut(ctx, EventNowPlaying, []Song{song}, func(s Scrobbler) []Outcome {
		return []Outcome{s.NowPlaying(ctx, song)}
	})
}

func (m *Manager) Paused(ctx context.Context, song Song) []Report {
	return m.fanOut(ctx, EventPaused, []Song{song}, func(s Scrobbler) []Outcome {
		return []Outcome{s.Paused(ctx, song)}
	})
}

func (m *Manager) Resumed(ctx context.Context, song Song) []Report {
	return m.fanOut(ctx, EventResumed, []Song{song}, func(s Scrobbler) []Outcome {
		return []Outcome{s.Resumed(ctx, song)}
	})
}

func (m *Manager) Scrobble(ctx context.Context, songs []Song, currentlyPlaying bool) []Report {
	return m.fanOut(ctx, EventScrobble, songs, func(s Scrobbler) []Outcome {
		return s.Scrobble(ctx, songs, currentlyPlaying)
	})
}

func (m *Manager) ToggleLove(ctx context.Context, song Song, loved bool) []Report {
	return m.fanOut(ctx, EventToggleLove, []Song{song}, func(s Scrobbler) []Outcome {
		return []Outcome{s.ToggleLove(ctx, song, loved)}
	})
}

// fanOut calls op on every registered scrobbler concurrently. Reports keep
// registration order.
func (m *Manager) fanOut(ctx context.Context, event string, songs []Song, op func(Scrobbler) []Outcome) []Report {
	scrobblers := m.Scrobblers()
	reports := make([]Report, len(scrobblers))

	var wg conc.WaitGroup
	for i, s := range scrobblers {
		i, s := i, s
		wg.Go(func() {
			reports[i] = Report{
				ScrobblerID: s.ID(),
				Event:       event,
				Songs:       songs,
				Outcomes:    op(s),
				At:          m.now(),
			}
		})
	}
	wg.Wait()

	// Reports are recorded even when the caller's deadline has passed.
	recordCtx := context.WithoutCancel(ctx)
	for _, r := range reports {
		m.logger.Debug("scrobble report",
			slog.String("scrobbler", r.ScrobblerID),
			slog.String("event", r.Event),
			slog.String("outcome", r.Outcome().String()))
		if m.recorder == nil {
			continue
		}
		if err := m.recorder.Record(recordCtx, r); err != nil {
			m.logger.Warn("record scrobble report", slog.String("scrobbler", r.ScrobblerID), slog.Any("err", err))
		}
	}
	return reports
}
