package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/goliatone/go-authform/pkg/drafts"
	"github.com/goliatone/go-authform/pkg/model"
)

// neverIdle stands in for a disabled idle TTL.
const neverIdle = 10 * 365 * 24 * time.Hour

// Manager maps client ids to sessions. Drafts of each client are scoped by
// its id inside the shared store.
//
// Sessions idle for longer than the idle TTL are evicted, and the least
// recently used session is evicted once the manager holds the maximum number
// of sessions. Evicted sessions are closed in the background, which flushes
// their pending drafts; a returning client gets a fresh session restored from
// those drafts.
type Manager struct {
	mu     sync.Mutex
	page   model.Page
	cfg    config
	store  drafts.Store
	logger *zap.Logger
	cache  *expirable.LRU[string, *Session]
}

// NewManager validates page and prepares a manager. Options apply to every
// session it creates.
func NewManager(page model.Page, opts ...Option) (*Manager, error) {
	if err := model.Check(page); err != nil {
		return nil, err
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	store := cfg.store
	if store == nil {
		store = drafts.NewMemory()
	}
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		page:   page.Clone(),
		cfg:    cfg,
		store:  store,
		logger: logger,
	}
	ttl := cfg.idleTTL
	if ttl <= 0 {
		ttl = neverIdle
	}
	m.cache = expirable.NewLRU[string, *Session](cfg.maxSessions, m.evicted, ttl)
	return m, nil
}

func (m *Manager) evicted(_ string, sess *Session) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.saveTimeout)
		defer cancel()
		if err := sess.Close(ctx); err != nil {
			m.logger.Warn("close evicted session failed", zap.Error(err))
		}
	}()
}

// Acquire returns the session for clientID, creating it when missing or
// expired. Every call restarts the idle timer. Ids that are not UUIDs are
// replaced by a fresh one; callers must hand the returned id back to the
// client.
func (m *Manager) Acquire(clientID string) (string, *Session, bool) {
	if _, err := uuid.Parse(clientID); err != nil {
		clientID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.cache.Get(clientID); ok {
		m.cache.Add(clientID, sess)
		return clientID, sess, false
	}
	// An expired entry may linger until the next cleanup tick.
	m.cache.Remove(clientID)

	cfg := m.cfg
	cfg.store = drafts.Scoped{Store: m.store, Scope: clientID}
	sess := newSession(m.page.Clone(), cfg)
	m.cache.Add(clientID, sess)
	return clientID, sess, true
}

// Get returns a live session without touching its idle timer.
func (m *Manager) Get(clientID string) (*Session, bool) {
	return m.cache.Peek(clientID)
}

// Len reports the number of held sessions.
func (m *Manager) Len() int {
	return m.cache.Len()
}

// Drop closes and forgets a session.
func (m *Manager) Drop(ctx context.Context, clientID string) error {
	m.mu.Lock()
	sess, ok := m.cache.Peek(clientID)
	m.cache.Remove(clientID)
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return sess.Close(ctx)
}

// Close flushes and stops every session.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := m.cache.Values()
	m.cache.Purge()
	m.mu.Unlock()

	var errs []error
	for _, sess := range sessions {
		if err := sess.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
