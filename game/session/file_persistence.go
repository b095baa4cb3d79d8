package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

// FilePersistence implements SessionPersistence using one JSON file per session
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}
	if !validSessionID.MatchString(session.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidSessionID, session.ID)
	}

	rules := session.Rules
	if rules == nil {
		rules = session.Engine.GetRules()
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     fp.getConfigIDFromName(rules.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Rules:          rules,
		GameState:      session.Engine.GetState(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated session
	filePath := fp.getFilePath(session.ID)
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load retrieves a session from a JSON file
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	if !validSessionID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSessionID, id)
	}

	jsonData, err := os.ReadFile(fp.getFilePath(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	if data.GameState == nil {
		return nil, fmt.Errorf("session file %s has no game state", id)
	}

	rules, err := fp.resolveRules(&data)
	if err != nil {
		return nil, err
	}

	game, err := engine.NewGameWithRules(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to create game engine: %w", err)
	}
	if err := game.SetState(data.GameState); err != nil {
		return nil, fmt.Errorf("failed to set game state: %w", err)
	}

	sessionID := data.ID
	if sessionID == "" {
		sessionID = id
	}

	return &service.Session{
		ID:             sessionID,
		Engine:         game,
		Rules:          rules,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// resolveRules prefers the embedded rule set, then the named config file, then the
// manager's default
func (fp *FilePersistence) resolveRules(data *PersistedSessionData) (*engine.RuleSet, error) {
	if data.Rules != nil {
		err := engine.ValidateRuleSet(data.Rules)
		if err == nil {
			return data.Rules, nil
		}
		log.WithField("session", data.ID).Warnf("embedded rules invalid, falling back to config: %v", err)
	}

	if fp.configManager == nil {
		return engine.DefaultRuleSet(), nil
	}

	if data.ConfigName != "" {
		rules, err := fp.configManager.LoadConfig(data.ConfigName)
		if err == nil {
			return rules, nil
		}
		log.WithField("session", data.ID).Warnf("failed to load config '%s': %v", data.ConfigName, err)
	}

	rules := fp.configManager.GetDefault()
	if rules == nil {
		return nil, fmt.Errorf("no rule set available for session %s", data.ID)
	}
	return rules, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			sessionID := strings.TrimSuffix(name, ".json")
			if validSessionID.MatchString(sessionID) {
				sessionIDs = append(sessionIDs, sessionID)
			}
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	if !validSessionID.MatchString(id) {
		return false
	}
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", strings.ToLower(id)))
}

// getConfigIDFromName returns the config ID (filename without extension) for a rule
// set display name, or the name itself when no file matches
func (fp *FilePersistence) getConfigIDFromName(displayName string) string {
	if fp.configManager == nil {
		return displayName
	}
	configs, err := fp.configManager.ListConfigs()
	if err != nil {
		return displayName
	}

	for _, config := range configs {
		if config.Name == displayName {
			return config.ConfigID
		}
	}

	return displayName
}
