package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type SimConfig struct {
	LaborSupply          int64
	MinWage              int64
	Users                int64
	MinUsefulnessPerUser int64
	StartingFunds        int64
	StartingShares       int64

	MaxRounds       int64
	DecisionWorkers int
	TickEvery       time.Duration
	RunOnce         bool

	ScenarioPath string
	LogLevel     slog.Level
}

// Default is a small market: 100 workers at a wage floor of 8 and 1000 users
// who want usefulness of at least 10.
func Default() SimConfig {
	return SimConfig{
		LaborSupply:          100,
		MinWage:              8,
		Users:                1000,
		MinUsefulnessPerUser: 10,
		StartingFunds:        100,
		StartingShares:       100,
		MaxRounds:            20,
		DecisionWorkers:      1,
		LogLevel:             slog.LevelInfo,
	}
}

func LoadFromEnv() (SimConfig, error) {
	def := Default()
	cfg := SimConfig{
		LaborSupply:          envInt64Default("FIRMSIM_LABOR_SUPPLY", def.LaborSupply),
		MinWage:              envInt64Default("FIRMSIM_MIN_WAGE", def.MinWage),
		Users:                envInt64Default("FIRMSIM_USERS", def.Users),
		MinUsefulnessPerUser: envInt64Default("FIRMSIM_MIN_USEFULNESS", def.MinUsefulnessPerUser),
		StartingFunds:        envInt64Default("FIRMSIM_STARTING_FUNDS", def.StartingFunds),
		StartingShares:       envInt64Default("FIRMSIM_STARTING_SHARES", def.StartingShares),
		MaxRounds:            envInt64Default("FIRMSIM_MAX_ROUNDS", def.MaxRounds),
		DecisionWorkers:      int(envInt64Default("FIRMSIM_DECISION_WORKERS", int64(def.DecisionWorkers))),
		TickEvery:            envDurationDefault("FIRMSIM_TICK_EVERY", def.TickEvery),
		RunOnce:              envBoolDefault("FIRMSIM_RUN_ONCE", def.RunOnce),
		ScenarioPath:         envDefault("FIRMSIM_SCENARIO", ""),
		LogLevel:             envLevelDefault("FIRMSIM_LOG_LEVEL", def.LogLevel),
	}
	return cfg, cfg.Validate()
}

func (c SimConfig) Validate() error {
	if c.LaborSupply < 0 || c.Users < 0 {
		return fmt.Errorf("labor supply and users must be >= 0")
	}
	if c.MinWage < 0 || c.MinUsefulnessPerUser < 0 {
		return fmt.Errorf("minimum wage and usefulness must be >= 0")
	}
	if c.StartingFunds < 0 || c.StartingShares < 0 {
		return fmt.Errorf("starting funds and shares must be >= 0")
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("max rounds must be >= 0")
	}
	if c.DecisionWorkers < 1 {
		return fmt.Errorf("decision workers must be >= 1")
	}
	if c.TickEvery < 0 {
		return fmt.Errorf("tick interval must be >= 0")
	}
	return nil
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envLevelDefault(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
