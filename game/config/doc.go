// Package config manages the Quoridor rule sets stored as JSON files.
//
// The config package handles:
//   - Loading rule sets from a directory of JSON files
//   - Caching parsed rule sets
//   - Default rule set selection
//   - Listing and saving rule sets
//
// Rule Set Format:
//
//	{
//	  "name": "standard",
//	  "description": "Fences may not seal a player off from their goal",
//	  "fences_per_player": 10,
//	  "enforce_path_to_goal": true,
//	  "messages": {"victory": "Player %d wins!"}
//	}
//
// Missing messages fall back to the built-in defaults. The victory message must
// contain %d for the winning player number.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.LoadConfig("blitz")
//	defaultRules := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default rule set is classic.json when present, otherwise the first valid file,
// otherwise engine.DefaultRuleSet.
package config
