package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/drafts"
	"github.com/goliatone/go-authform/pkg/submit"
)

// DefaultAutosaveDebounce is the quiet period before a draft is written.
const DefaultAutosaveDebounce = 300 * time.Millisecond

// Manager limits.
const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// Option customises a Session or Manager.
type Option func(*config)

type config struct {
	store          drafts.Store
	submitter      submit.Submitter
	logger         *zap.Logger
	observer       Observer
	debounce       time.Duration
	toastCapacity  int
	includeSecrets bool
	saveTimeout    time.Duration
	idleTTL        time.Duration
	maxSessions    int
}

func defaultConfig() config {
	return config{
		debounce:    DefaultAutosaveDebounce,
		saveTimeout: 5 * time.Second,
		idleTTL:     DefaultIdleTTL,
		maxSessions: DefaultMaxSessions,
	}
}

// WithStore sets the draft store. Without one, drafts are kept in memory.
func WithStore(store drafts.Store) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithSubmitter sets the submission backend. The default is
// submit.NewSimulated().
func WithSubmitter(s submit.Submitter) Option {
	return func(c *config) {
		c.submitter = s
	}
}

// WithLogger sets the logger. Field values are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver sets the instrumentation hook.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithAutosaveDebounce sets the autosave quiet period. Zero saves on every
// input.
func WithAutosaveDebounce(d time.Duration) Option {
	return func(c *config) {
		if d < 0 {
			d = 0
		}
		c.debounce = d
	}
}

// WithToastCapacity bounds the pending toast queue.
func WithToastCapacity(n int) Option {
	return func(c *config) {
		c.toastCapacity = n
	}
}

// WithIncludeSecrets allows password fields to be autosaved.
func WithIncludeSecrets(include bool) Option {
	return func(c *config) {
		c.includeSecrets = include
	}
}

// WithSaveTimeout bounds each background draft write.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.saveTimeout = d
		}
	}
}

// WithIdleTTL sets how long a Manager keeps a session without requests.
// Zero keeps sessions until they are pushed out by WithMaxSessions.
func WithIdleTTL(d time.Duration) Option {
	return func(c *config) {
		if d < 0 {
			d = 0
		}
		c.idleTTL = d
	}
}

// WithMaxSessions caps the sessions a Manager holds; the least recently used
// one is evicted first. Zero removes the cap.
func WithMaxSessions(n int) Option {
	return func(c *config) {
		if n < 0 {
			n = 0
		}
		c.maxSessions = n
	}
}
