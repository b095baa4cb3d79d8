package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/quoridor/game/engine"
)

func createValidRules(name string) *engine.RuleSet {
	rules := engine.DefaultRuleSet()
	rules.Name = name
	rules.Description = "Test rule set " + name
	return rules
}

func writeConfigFile(t *testing.T, dir, name string, rules *engine.RuleSet) {
	t.Helper()
	data, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func writeRawFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic is the default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "blitz", createValidRules("blitz"))
		writeConfigFile(t, dir, "classic", createValidRules("classic"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "classic" {
			t.Errorf("Expected classic default, got %s", got)
		}
	})

	t.Run("first valid file when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeRawFile(t, dir, "aaa.json", `{broken`)
		writeConfigFile(t, dir, "blitz", createValidRules("blitz"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Name; got != "blitz" {
			t.Errorf("Expected blitz default, got %s", got)
		}
	})

	t.Run("built-in rules when directory is empty", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got: %v", err)
		}
		if manager.GetDefault() == nil {
			t.Fatal("Expected a default rule set")
		}
		if got := manager.GetDefault().FencesPerPlayer; got != engine.DefaultFencesPerPlayer {
			t.Errorf("Expected %d fences, got %d", engine.DefaultFencesPerPlayer, got)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	standard := createValidRules("standard")
	standard.EnforcePathToGoal = true
	writeConfigFile(t, dir, "standard", standard)
	writeRawFile(t, dir, "broken.json", `{"name": "broken", "description": "x", "fences_per_player": 50}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	tests := []struct {
		name    string
		config  string
		wantErr error
	}{
		{"by name", "standard", nil},
		{"with extension", "standard.json", nil},
		{"missing", "nope", ErrConfigNotFound},
		{"invalid", "broken", ErrInvalidConfig},
		{"path traversal", "../etc/passwd", ErrConfigNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rules, err := manager.LoadConfig(test.config)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Errorf("Expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if !rules.EnforcePathToGoal {
				t.Error("Expected path check from file")
			}
		})
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	blitz := createValidRules("blitz")
	blitz.FencesPerPlayer = 5
	writeConfigFile(t, dir, "blitz", blitz)
	writeConfigFile(t, dir, "classic", createValidRules("classic"))
	writeRawFile(t, dir, "broken.json", `{`)
	writeRawFile(t, dir, "notes.txt", `not a rule set`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("ListConfigs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "blitz" || configs[0].FencesPerPlayer != 5 {
		t.Errorf("Unexpected first config %+v", configs[0])
	}
	if configs[1].Filename != "classic.json" {
		t.Errorf("Expected classic.json, got %s", configs[1].Filename)
	}
}

func TestManager_ValidateAll(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidRules("classic"))
	writeRawFile(t, dir, "bad_victory.json", `{"name": "x", "description": "y", "messages": {"victory": "done"}}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	failures, checked, err := manager.ValidateAll()
	if err != nil {
		t.Fatalf("ValidateAll: %v", err)
	}
	if len(checked) != 2 {
		t.Errorf("Expected 2 files checked, got %v", checked)
	}
	if len(failures) != 1 || failures["bad_victory.json"] == nil {
		t.Errorf("Expected only bad_victory.json to fail, got %v", failures)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	rules := createValidRules("custom")
	rules.FencesPerPlayer = 7
	if err := manager.SaveConfig("custom", rules); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "custom.json")); err != nil {
		t.Errorf("Expected file on disk: %v", err)
	}

	// Reload from disk rather than cache
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}
	loaded, err := manager.LoadConfig("custom")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.FencesPerPlayer != 7 {
		t.Errorf("Expected 7 fences, got %d", loaded.FencesPerPlayer)
	}

	bad := createValidRules("bad")
	bad.FencesPerPlayer = -2
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", rules); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad name, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidRules("classic"))
	writeConfigFile(t, dir, "blitz", createValidRules("blitz"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SetDefault("blitz"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if manager.GetDefault().Name != "blitz" {
		t.Errorf("Expected blitz default, got %s", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidRules("classic"))
	writeConfigFile(t, dir, "blitz", createValidRules("blitz"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("blitz"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.ListConfigs(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent access error: %v", err)
	}
}
