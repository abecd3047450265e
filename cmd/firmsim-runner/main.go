package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stakeholder/internal/config"
	"stakeholder/internal/game"
	"stakeholder/internal/strategy"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	svc, err := newService(cfg, logger)
	if err != nil {
		logger.Error("simulation init failed", "err", err)
		os.Exit(1)
	}

	if cfg.RunOnce {
		report, err := svc.RunRound(ctx)
		if err != nil {
			logger.Error("round failed", "err", err)
			os.Exit(1)
		}
		logRound(logger, report)
		logger.Info("runner run-once completed")
		return
	}

	if cfg.TickEvery <= 0 {
		if err := svc.Run(ctx, func(report game.RoundReport) error {
			logRound(logger, report)
			return nil
		}); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("simulation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("runner started", "tick_every", cfg.TickEvery.String(), "max_rounds", cfg.MaxRounds)
	for !svc.Done() {
		select {
		case <-ctx.Done():
			logger.Info("runner shutdown", "round", svc.Round())
			return
		case <-ticker.C:
			report, err := svc.RunRound(ctx)
			if errors.Is(err, context.Canceled) {
				logger.Info("runner shutdown", "round", svc.Round())
				return
			}
			if err != nil {
				logger.Error("round failed", "round", svc.Round()+1, "err", err)
				os.Exit(1)
			}
			logRound(logger, report)
		}
	}
	logger.Info("runner finished", "rounds", svc.Round(), "survivors", len(svc.Market().Firms))
}

func newService(cfg config.SimConfig, logger *slog.Logger) (*game.Service, error) {
	sc := config.EstablishedScenario(cfg)
	if cfg.ScenarioPath != "" {
		loaded, err := config.LoadScenario(cfg.ScenarioPath, cfg)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	market, err := sc.BuildMarket()
	if err != nil {
		return nil, err
	}
	deciders := make(map[string]game.Decider, len(sc.Firms))
	for _, f := range sc.Firms {
		s, err := strategy.Parse(f.Strategy)
		if err != nil {
			return nil, fmt.Errorf("firm %q: %w", f.Name, err)
		}
		deciders[f.Name] = s
	}
	return game.NewService(market, deciders, logger,
		game.WithMaxRounds(cfg.MaxRounds),
		game.WithDecisionWorkers(cfg.DecisionWorkers),
	)
}

func logRound(logger *slog.Logger, report game.RoundReport) {
	leader := ""
	if len(report.Standings) > 0 {
		leader = report.Standings[0].Firm
	}
	logger.Info("round complete",
		"round", report.Round,
		"leader", leader,
		"bankrupt", report.Bankrupt,
		"events", len(report.Events()),
		"survivors", len(report.Final().Firms),
	)
}
