package gallery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

// Registry holds the live sessions of this process, keyed by the
// session id baked into the login token. An owner has at most one
// resident session: a new login evicts the previous one, and sessions
// older than the token lifespan are swept on every registration, so
// the registry never outgrows the set of currently valid tokens.
type Registry struct {
	repo   thumbnail.Repository
	events EventPublisher
	logger logger.Logger
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	byOwner  map[uuid.UUID]uuid.UUID
}

// NewRegistry builds a registry whose sessions expire after ttl, the
// same lifespan the login tokens carry. A non-positive ttl disables
// the age sweep; per-owner eviction still applies.
func NewRegistry(repo thumbnail.Repository, events EventPublisher, log logger.Logger, ttl time.Duration) *Registry {
	return &Registry{
		repo:     repo,
		events:   events,
		logger:   log,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
		byOwner:  make(map[uuid.UUID]uuid.UUID),
	}
}

// Open creates a session for the owner and performs its one-shot load.
// A load failure is not fatal: the session is registered with an empty
// view and the error is returned so the caller can warn the user.
func (r *Registry) Open(ctx context.Context, ownerID uuid.UUID) (*Session, error) {
	s := NewSession(ownerID, r.repo, r.events, r.logger)
	loadErr := s.Load(ctx)

	r.register(s)
	return s, loadErr
}

// Resolve returns the session for the id, re-opening one for the owner
// when the original was lost to a restart. The second return reports
// the load outcome of a re-open; an existing session returns nil.
func (r *Registry) Resolve(ctx context.Context, sessionID, ownerID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	s = NewSession(ownerID, r.repo, r.events, r.logger)
	s.ID = sessionID
	loadErr := s.Load(ctx)

	r.register(s)
	return s, loadErr
}

// Close drops a session from the registry.
func (r *Registry) Close(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(sessionID)
}

// Len reports the number of resident sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	if prev, ok := r.byOwner[s.OwnerID]; ok {
		r.dropLocked(prev)
	}
	r.sessions[s.ID] = s
	r.byOwner[s.OwnerID] = s.ID
}

func (r *Registry) dropLocked(sessionID uuid.UUID) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)
	if r.byOwner[s.OwnerID] == sessionID {
		delete(r.byOwner, s.OwnerID)
	}
}

// sweepLocked evicts sessions whose token lifespan has elapsed; their
// tokens no longer pass auth, so nothing can resolve them again.
func (r *Registry) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.OpenedAt.Before(cutoff) {
			r.dropLocked(id)
		}
	}
}
