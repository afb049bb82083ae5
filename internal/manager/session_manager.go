// Package manager tracks live assistant sessions for the REST server. Each
// session owns its controller; the manager only maps IDs to controllers and
// bounds how many stay resident.
package manager

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hmasato/statchat/pkg/advisor"
	"github.com/hmasato/statchat/pkg/assist"
	cerr "github.com/hmasato/statchat/pkg/common/errors"
)

// MaxOpenSessions bounds resident sessions; the least recently used one is
// evicted, which drops its extracted text and chart cache.
const MaxOpenSessions = 64

// SessionManager maps session IDs to controllers.
type SessionManager struct {
	gen      advisor.Generator
	sessions *lru.Cache[string, *assist.Controller]
	mu       sync.Mutex
}

// NewSessionManager creates a manager whose sessions share one Generator.
func NewSessionManager(gen advisor.Generator) *SessionManager {
	// Evicted sessions hold no external resources; dropping them is enough.
	cache, _ := lru.New[string, *assist.Controller](MaxOpenSessions)
	return &SessionManager{gen: gen, sessions: cache}
}

// Create registers a new session and returns its ID.
func (sm *SessionManager) Create() string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	id := uuid.NewString()
	sm.sessions.Add(id, assist.New(sm.gen))
	return id
}

// Get retrieves a session's controller by ID.
func (sm *SessionManager) Get(id string) (*assist.Controller, error) {
	if ctrl, ok := sm.sessions.Get(id); ok {
		return ctrl, nil
	}
	return nil, fmt.Errorf("%w: session %s", cerr.ErrNotFound, id)
}

// Close tears down one session.
func (sm *SessionManager) Close(id string) {
	sm.sessions.Remove(id)
}

// CloseAll tears down every session.
func (sm *SessionManager) CloseAll() {
	sm.sessions.Purge()
}
