package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/quoridor/game/config"
	"github.com/wricardo/quoridor/game/engine"
	"github.com/wricardo/quoridor/game/service"
)

func newTestSession(t *testing.T, id string, rules *engine.RuleSet) *service.Session {
	t.Helper()
	game, err := engine.NewGameWithRules(rules)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return &service.Session{
		ID:             id,
		Engine:         game,
		Rules:          rules,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
}

func TestFilePersistence(t *testing.T) {
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	persistence, err := NewFilePersistence(t.TempDir(), configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	rules, err := configManager.LoadConfig("standard")
	if err != nil {
		t.Fatalf("Failed to load standard rules: %v", err)
	}
	session := newTestSession(t, "test1", rules)

	t.Run("Save and Load Session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Error("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		if loaded.ID != session.ID {
			t.Errorf("Expected ID %s, got %s", session.ID, loaded.ID)
		}
		if loaded.Rules.Name != "standard" || !loaded.Rules.EnforcePathToGoal {
			t.Errorf("Expected standard rules with path check, got %+v", loaded.Rules)
		}
		if loaded.Engine.CurrentTurn() != engine.PlayerOne {
			t.Errorf("Expected player one to move, got %s", loaded.Engine.CurrentTurn())
		}
	})

	t.Run("Save State Changes", func(t *testing.T) {
		if err := session.Engine.MovePawn(engine.PlayerOne, engine.Coord{Col: 4, Row: 1}); err != nil {
			t.Fatalf("Move failed: %v", err)
		}
		if err := session.Engine.PlaceFence(engine.PlayerTwo, engine.Horizontal, engine.Coord{Col: 2, Row: 5}); err != nil {
			t.Fatalf("Fence failed: %v", err)
		}
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save updated session: %v", err)
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load updated session: %v", err)
		}

		if got := loaded.Engine.Player(engine.PlayerOne).Position; got != (engine.Coord{Col: 4, Row: 1}) {
			t.Errorf("Pawn position not persisted, got %v", got)
		}
		if loaded.Engine.CurrentTurn() != engine.PlayerOne {
			t.Errorf("Turn not persisted, got %s", loaded.Engine.CurrentTurn())
		}
		if len(loaded.Engine.GetHistory()) != 2 {
			t.Errorf("Expected 2 history entries, got %d", len(loaded.Engine.GetHistory()))
		}
		ledger := loaded.Engine.FenceLedger(engine.PlayerTwo)
		if len(ledger) != 1 {
			t.Fatalf("Expected 1 fence in player two's ledger, got %d", len(ledger))
		}
		if loaded.Engine.Player(engine.PlayerTwo).FencesRemaining != rules.FencesPerPlayer-1 {
			t.Errorf("Fence count not persisted")
		}
		if !loaded.Engine.GetState().Board.HasFence(engine.Coord{Col: 2, Row: 5}, engine.North) {
			t.Error("Fenced edge not persisted")
		}
	})

	t.Run("List All Sessions", func(t *testing.T) {
		if err := persistence.Save(newTestSession(t, "test2", rules)); err != nil {
			t.Fatalf("Failed to save second session: %v", err)
		}

		sessionIDs, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}

		found := make(map[string]bool)
		for _, id := range sessionIDs {
			found[id] = true
		}
		if !found["test1"] || !found["test2"] {
			t.Errorf("Expected sessions not found in list: %v", sessionIDs)
		}
	})

	t.Run("Delete Session", func(t *testing.T) {
		if err := persistence.Delete("test2"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("test2") {
			t.Error("Session should not exist after delete")
		}
		if _, err := persistence.Load("test2"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Error Cases", func(t *testing.T) {
		if _, err := persistence.Load("nonexistent"); err == nil {
			t.Error("Should get error when loading non-existent session")
		}
		if err := persistence.Delete("nonexistent"); err == nil {
			t.Error("Should get error when deleting non-existent session")
		}
		if err := persistence.Save(nil); err == nil {
			t.Error("Should get error when saving nil session")
		}
		if _, err := persistence.Load("../configs/classic"); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID for traversal, got %v", err)
		}
		if persistence.Exists("../x") {
			t.Error("Traversal IDs should never exist")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	tempDir := t.TempDir()

	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	if err := persistence.Save(newTestSession(t, "file_test", configManager.GetDefault())); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	expectedFile := filepath.Join(tempDir, "file_test.json")
	data, err := os.ReadFile(expectedFile)
	if err != nil {
		t.Fatalf("Failed to read session file: %v", err)
	}

	content := string(data)
	for _, field := range []string{`"id"`, `"config_name"`, `"created_at"`, `"rules"`, `"game_state"`} {
		if !strings.Contains(content, field) {
			t.Errorf("Session file should contain field %s", field)
		}
	}

	var persisted PersistedSessionData
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("Session file is not valid JSON: %v", err)
	}
	if persisted.ConfigName != "classic" {
		t.Errorf("Expected config_name classic, got %s", persisted.ConfigName)
	}

	if _, err := os.Stat(expectedFile + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not be left behind")
	}
}

func TestFilePersistenceRuleFallback(t *testing.T) {
	tempDir := t.TempDir()

	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	state := engine.InitGameState(nil)

	tests := []struct {
		name      string
		data      PersistedSessionData
		wantRules string
	}{
		{
			name:      "config name without embedded rules",
			data:      PersistedSessionData{ID: "fb1", ConfigName: "blitz", GameState: state},
			wantRules: "blitz",
		},
		{
			name:      "unknown config uses default",
			data:      PersistedSessionData{ID: "fb2", ConfigName: "gone", GameState: state},
			wantRules: "classic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.data)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if err := os.WriteFile(filepath.Join(tempDir, tt.data.ID+".json"), raw, 0644); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			loaded, err := persistence.Load(tt.data.ID)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if loaded.Rules.Name != tt.wantRules {
				t.Errorf("Expected rules %s, got %s", tt.wantRules, loaded.Rules.Name)
			}
		})
	}

	t.Run("corrupt file", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(tempDir, "bad1.json"), []byte("{not json"), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := persistence.Load("bad1"); err == nil {
			t.Error("Expected error for corrupt session file")
		}
	})
}
