package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidSessionID     = errors.New("invalid session ID")
)

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// Manager handles game session lifecycle.
//
// Lock order: the manager's map lock is never held while waiting on a session lock,
// and the manager only takes a session lock to read or touch LastAccessedAt.
type Manager struct {
	sessions    map[string]*service.Session
	persistence SessionPersistence
	mu          sync.RWMutex
}

// NewManager creates a new in-memory session manager
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// NewManagerWithPersistence creates a new session manager with persistence
func NewManagerWithPersistence(persistence SessionPersistence) *Manager {
	return &Manager{
		sessions:    make(map[string]*service.Session),
		persistence: persistence,
	}
}

// Create creates a new session with the given ID and rules. An empty ID gets a
// random 4-character one.
func (m *Manager) Create(id string, rules *engine.RuleSet) (*service.Session, error) {
	if id != "" && !validSessionID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}
	if rules == nil {
		rules = engine.DefaultRuleSet()
	}

	game, err := engine.NewGameWithRules(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	if id == "" {
		id = m.generateSessionID()
		for m.sessionExists(id) {
			id = m.generateSessionID()
		}
	} else if m.sessionExists(id) {
		m.mu.Unlock()
		return nil, ErrSessionAlreadyExists
	}

	now := time.Now()
	session := &service.Session{
		ID:             id,
		Engine:         game,
		Rules:          rules,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.sessions[strings.ToLower(id)] = session
	m.mu.Unlock()

	// Nobody else can see the session's game yet, so no session lock is needed
	if m.persistence != nil {
		if err := m.persistence.Save(session); err != nil {
			log.WithField("session", id).Warnf("failed to persist session: %v", err)
		}
	}

	return session, nil
}

// Get retrieves a session by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return session, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && validSessionID.MatchString(id) && m.persistence.Exists(id) {
		loaded, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted session: %w", err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		// Another request may have loaded it first
		if session, exists := m.sessions[strings.ToLower(id)]; exists {
			return session, nil
		}
		m.sessions[strings.ToLower(id)] = loaded
		return loaded, nil
	}

	return nil, ErrSessionNotFound
}

// GetOrCreate gets an existing session or creates a new one
func (m *Manager) GetOrCreate(id string, rules *engine.RuleSet) (*service.Session, error) {
	session, err := m.Get(id)
	if err == nil {
		return session, nil
	}

	if errors.Is(err, ErrSessionNotFound) {
		return m.Create(id, rules)
	}

	return nil, err
}

// List returns all active sessions
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}

	return result
}

// Delete removes a session from memory and from persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, inMemory := m.sessions[strings.ToLower(id)]
	delete(m.sessions, strings.ToLower(id))
	m.mu.Unlock()

	if m.persistence != nil && validSessionID.MatchString(id) && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteFromMemory removes a session from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	if _, exists := m.sessions[lowerID]; !exists {
		return ErrSessionNotFound
	}
	delete(m.sessions, lowerID)
	return nil
}

// UpdateLastAccessed touches the session's last access time. Do not call it while
// holding the session lock.
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	session.Lock()
	session.LastAccessedAt = time.Now()
	session.Unlock()
	return nil
}

// Save writes a session to persistence. The caller holds the session lock.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrSessionNotFound
	}

	return m.persistence.Save(session)
}

// CleanupExpiredSessions removes in-memory sessions that haven't been accessed
// within maxAge. Persisted copies stay on disk.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	var expired []string
	for _, session := range m.List() {
		session.Lock()
		if session.LastAccessedAt.Before(cutoff) {
			expired = append(expired, strings.ToLower(session.ID))
		}
		session.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range expired {
		delete(m.sessions, id)
	}
	return len(expired)
}

// Count returns the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// generateSessionID generates a random 4-character session ID
func (m *Manager) generateSessionID() string {
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// sessionExists checks if a session exists (case-insensitive). Caller holds m.mu.
func (m *Manager) sessionExists(id string) bool {
	_, exists := m.sessions[strings.ToLower(id)]
	return exists
}

// LoadPersistedSessions loads all persisted sessions into memory
func (m *Manager) LoadPersistedSessions() error {
	if m.persistence == nil {
		return nil
	}

	sessionIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted sessions: %w", err)
	}

	loadedCount := 0
	for _, id := range sessionIDs {
		m.mu.RLock()
		loaded := m.sessionExists(id)
		m.mu.RUnlock()
		if loaded {
			continue
		}

		session, err := m.persistence.Load(id)
		if err != nil {
			log.WithField("session", id).Warnf("failed to load persisted session: %v", err)
			continue
		}

		m.mu.Lock()
		if !m.sessionExists(id) {
			m.sessions[strings.ToLower(id)] = session
			loadedCount++
		}
		m.mu.Unlock()
	}

	if loadedCount > 0 {
		log.Infof("loaded %d persisted sessions from storage", loadedCount)
	}

	return nil
}

// SaveAllSessions saves all in-memory sessions to persistence
func (m *Manager) SaveAllSessions() error {
	if m.persistence == nil {
		return nil
	}

	errorCount := 0
	for _, session := range m.List() {
		session.Lock()
		err := m.persistence.Save(session)
		session.Unlock()
		if err != nil {
			log.WithField("session", session.ID).Warnf("failed to save session: %v", err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d sessions", errorCount)
	}

	return nil
}
