package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := Default()
	if cfg.LaborSupply != def.LaborSupply || cfg.MinWage != def.MinWage || cfg.Users != def.Users || cfg.MinUsefulnessPerUser != def.MinUsefulnessPerUser {
		t.Fatalf("market defaults got %+v", cfg)
	}
	if cfg.MaxRounds != 20 || cfg.DecisionWorkers != 1 || cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("run defaults got %+v", cfg)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("FIRMSIM_LABOR_SUPPLY", "250")
	t.Setenv("FIRMSIM_MIN_WAGE", " 12 ")
	t.Setenv("FIRMSIM_MAX_ROUNDS", "0")
	t.Setenv("FIRMSIM_TICK_EVERY", "1500ms")
	t.Setenv("FIRMSIM_RUN_ONCE", "true")
	t.Setenv("FIRMSIM_LOG_LEVEL", "debug")
	t.Setenv("FIRMSIM_USERS", "not-a-number")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LaborSupply != 250 || cfg.MinWage != 12 || cfg.MaxRounds != 0 {
		t.Fatalf("overrides got %+v", cfg)
	}
	if cfg.TickEvery != 1500*time.Millisecond || !cfg.RunOnce || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("run overrides got %+v", cfg)
	}
	if cfg.Users != Default().Users {
		t.Fatalf("malformed value should fall back, got %d", cfg.Users)
	}
}

func TestLoadFromEnvRejectsInvalid(t *testing.T) {
	t.Setenv("FIRMSIM_DECISION_WORKERS", "0")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatalf("expected zero decision workers to fail")
	}
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
market:
  users: 500
firms:
  - name: Acme
    strategy: founder
  - name: Old Co
    strategy: shareholder
    established: true
    funds: 900
    previous_funds: [850, 800]
    profit_trend: 50
    employees: 12
`)
	sc, err := LoadScenario(path, Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Market.Users != 500 || sc.Market.LaborSupply != 100 || sc.Market.MinWage != 8 {
		t.Fatalf("market got %+v", sc.Market)
	}
	if sc.Firms[0].Funds != 100 || sc.Firms[0].Shares != 100 {
		t.Fatalf("defaults not applied to %+v", sc.Firms[0])
	}
	if sc.Firms[1].Shares != 0 {
		t.Fatalf("established firm should keep a closed float, got %d", sc.Firms[1].Shares)
	}

	m, err := sc.BuildMarket()
	if err != nil {
		t.Fatalf("build market: %v", err)
	}
	old, err := m.Firm("Old Co")
	if err != nil {
		t.Fatalf("firm: %v", err)
	}
	if !old.Established || old.CurrentFunds != 900 || old.Employees != 12 || old.ProfitTrend != 50 || len(old.PreviousFunds) != 2 {
		t.Fatalf("established firm got %+v", old)
	}
	if m.UsersLeft != 500 || m.WorkersLeft != 100 {
		t.Fatalf("pools not at capacity: users_left=%d workers_left=%d", m.UsersLeft, m.WorkersLeft)
	}
}

func TestLoadScenarioRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no firms", body: "market:\n  users: 10\n"},
		{name: "duplicate", body: "firms:\n  - name: A\n  - name: A\n"},
		{name: "blank name", body: "firms:\n  - name: '  '\n"},
		{name: "established without history", body: "firms:\n  - name: A\n    established: true\n"},
	}
	for _, tc := range tests {
		_, err := LoadScenario(writeScenario(t, tc.body), Default())
		if !errors.Is(err, ErrInvalidScenario) {
			t.Fatalf("%s: expected ErrInvalidScenario, got %v", tc.name, err)
		}
	}
	if _, err := LoadScenario(writeScenario(t, "firms: [oops"), Default()); err == nil {
		t.Fatalf("expected malformed yaml to fail")
	}
}

func TestBuiltInScenarios(t *testing.T) {
	for _, sc := range []Scenario{DefaultScenario(Default()), EstablishedScenario(Default())} {
		if err := sc.Validate(); err != nil {
			t.Fatalf("built-in scenario invalid: %v", err)
		}
		m, err := sc.BuildMarket()
		if err != nil {
			t.Fatalf("build market: %v", err)
		}
		if len(m.Firms) != 3 {
			t.Fatalf("firms got=%d want=3", len(m.Firms))
		}
	}
}
