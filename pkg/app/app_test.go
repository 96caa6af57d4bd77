package app

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/DSoyomokun/CSC4821/pkg/config"
	"github.com/DSoyomokun/CSC4821/pkg/types"
)

const testProblemYAML = `id: contains_duplicate
number: 1
title: Contains Duplicate
difficulty: 1
functionName: containsDuplicate
parameters: [nums]
testCases:
  - input: [1, 2, 1]
    expected: true
reward: 100
`

func TestLoadBankDefaultTierRules(t *testing.T) {
	fsys := fstest.MapFS{
		"data/problems/contains_duplicate.yaml": {Data: []byte(testProblemYAML)},
	}

	bank, err := loadBank(fsys)
	if err != nil {
		t.Fatalf("loadBank: %v", err)
	}
	if bank.Len() != 1 {
		t.Fatalf("Len = %d, want 1", bank.Len())
	}
	if got := bank.ForTier(types.TierWhite); len(got) != 1 {
		t.Errorf("white tier has %d problems, want 1", len(got))
	}
}

func TestLoadBankTierRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   string
		white   int
		wantErr bool
	}{
		{"custom rule", "tiers:\n  white: difficulty > 5\n  blue: difficulty > 5\n  black: difficulty >= 1\n", 0, false},
		{"bad expression", "tiers:\n  white: difficulty >\n  blue: 'true'\n  black: 'true'\n", 0, true},
		{"missing tier", "tiers:\n  white: difficulty > 1\n", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{
				"data/problems/contains_duplicate.yaml": {Data: []byte(testProblemYAML)},
				"data/tier_rules.yaml":                  {Data: []byte(tt.rules)},
			}
			bank, err := loadBank(fsys)
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidConfig) {
					t.Errorf("got %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadBank: %v", err)
			}
			if got := len(bank.ForTier(types.TierWhite)); got != tt.white {
				t.Errorf("white tier has %d problems, want %d", got, tt.white)
			}
		})
	}
}

func TestLoadBankMissingDirectory(t *testing.T) {
	if _, err := loadBank(fstest.MapFS{}); err == nil {
		t.Error("missing problem directory should fail")
	}
}

func TestLoadGameConfigEmbedded(t *testing.T) {
	fsys := fstest.MapFS{
		"data/game.yaml": {Data: []byte("groundY: 800\n")},
	}
	cfg, err := loadGameConfig(fsys, "")
	if err != nil {
		t.Fatalf("loadGameConfig: %v", err)
	}
	if cfg.GroundY != 800 {
		t.Errorf("GroundY = %v, want 800", cfg.GroundY)
	}
	if cfg.Rules.MaxHits != config.DefaultGameConfig().Rules.MaxHits {
		t.Error("unset fields should keep their defaults")
	}

	if _, err := loadGameConfig(fsys, "/nonexistent/game.yaml"); err == nil {
		t.Error("missing override file should fail")
	}
}

func TestSeedFunc(t *testing.T) {
	fixed := SeedFunc(42)
	if fixed() != 42 || fixed() != 42 {
		t.Error("fixed seed should repeat")
	}
	if SeedFunc(0)() == 0 {
		t.Error("random seed should not be zero")
	}
}

func TestKeyBindingsUnique(t *testing.T) {
	type binding struct {
		key     int
		release bool
	}
	seen := make(map[binding]bool)
	for _, b := range keyBindings {
		k := binding{int(b.key), b.release}
		if seen[k] {
			t.Errorf("key %v bound twice", b.key)
		}
		seen[k] = true
	}
}
