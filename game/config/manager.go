package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles rule set loading and caching
type Manager struct {
	configDir   string
	defaultRule *engine.RuleSet
	configs     map[string]*engine.RuleSet
	mu          sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.RuleSet),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// ConfigDir returns the directory rule sets are read from
func (m *Manager) ConfigDir() string {
	return m.configDir
}

// LoadConfig loads a rule set by name, with or without the .json suffix
func (m *Manager) LoadConfig(name string) (*engine.RuleSet, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: bad config name %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if rules, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return rules, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.configs[name]; exists {
		return rules, nil
	}

	configPath := filepath.Join(m.configDir, name+".json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	rules, err := engine.ParseRuleSet(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = rules
	return rules, nil
}

// ListConfigs returns information about all valid rule sets in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		rules, err := m.LoadConfig(name)
		if err != nil {
			log.WithField("file", entry.Name()).Debugf("skipping rule set: %v", err)
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:          entry.Name(),
			ConfigID:          name,
			Name:              rules.Name,
			Description:       rules.Description,
			FencesPerPlayer:   rules.FencesPerPlayer,
			EnforcePathToGoal: rules.EnforcePathToGoal,
		})
	}

	return configs, nil
}

// ValidateAll parses every .json file in the directory without caching and returns
// the failures keyed by filename. An empty map means every file is valid.
func (m *Manager) ValidateAll() (map[string]error, []string, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	failures := make(map[string]error)
	var checked []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		checked = append(checked, entry.Name())
		if _, err := engine.LoadRuleSet(filepath.Join(m.configDir, entry.Name())); err != nil {
			failures[entry.Name()] = err
		}
	}
	sort.Strings(checked)
	return failures, checked, nil
}

// GetDefault returns the default rule set
func (m *Manager) GetDefault() *engine.RuleSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultRule
}

// SetDefault sets the default rule set by name
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRule = rules
	return nil
}

// RefreshCache drops cached rule sets and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.RuleSet)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig picks classic, then the first valid file, then the built-in rules
func (m *Manager) loadDefaultConfig() error {
	rules, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			log.Debugf("no rule sets in %s, using built-in rules", m.configDir)
			m.setDefault(engine.DefaultRuleSet())
			return nil
		}

		rules, err = m.LoadConfig(configs[0].ConfigID)
		if err != nil {
			m.setDefault(engine.DefaultRuleSet())
			return nil
		}
	}

	m.setDefault(rules)
	return nil
}

func (m *Manager) setDefault(rules *engine.RuleSet) {
	m.mu.Lock()
	m.defaultRule = rules
	m.mu.Unlock()
}

// SaveConfig validates and writes a rule set to disk
func (m *Manager) SaveConfig(name string, rules *engine.RuleSet) error {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}
	if err := engine.ValidateRuleSet(rules); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, name+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = rules
	m.mu.Unlock()

	return nil
}
