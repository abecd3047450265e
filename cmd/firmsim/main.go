package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"stakeholder/internal/cli"
	"stakeholder/internal/config"
	"stakeholder/internal/game"
	"stakeholder/internal/script"
	"stakeholder/internal/strategy"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfg         config.SimConfig
	scenario    string
	rounds      int64
	logLevel    string
	established bool
	stages      bool
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	setupColor()

	opts := &rootOptions{
		cfg:      cfg,
		scenario: cfg.ScenarioPath,
		rounds:   cfg.MaxRounds,
		logLevel: cfg.LogLevel.String(),
	}

	root := &cobra.Command{
		Use:          "firmsim",
		Short:        "Simulate firms competing for users and workers",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.scenario, "scenario", opts.scenario, "YAML scenario file")
	pf.Int64Var(&opts.rounds, "rounds", opts.rounds, "Stop after this many rounds (0 runs until no firm is left)")
	pf.StringVar(&opts.logLevel, "log-level", opts.logLevel, "Log level (debug, info, warn, error)")
	pf.BoolVar(&opts.established, "established", false, "Start the built-in firms with history instead of pre-IPO")
	pf.BoolVar(&opts.stages, "stages", false, "Print the market after every stage")

	root.AddCommand(
		newPlayCmd(opts),
		newAutoCmd(opts),
		newReplayCmd(opts),
		newStrategiesCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Enter every firm's decisions at the prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, logger, err := opts.load()
			if err != nil {
				return err
			}
			prompt := cli.NewPromptDecider(os.Stdin, os.Stdout)
			deciders := make(map[string]game.Decider, len(sc.Firms))
			for _, f := range sc.Firms {
				deciders[f.Name] = prompt
			}
			return opts.run(cmd.Context(), sc, deciders, logger, opts.rounds, 1)
		},
	}
}

func newAutoCmd(opts *rootOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Let each firm's ownership strategy decide",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, logger, err := opts.load()
			if err != nil {
				return err
			}
			deciders, err := strategyDeciders(sc)
			if err != nil {
				return err
			}
			return opts.run(cmd.Context(), sc, deciders, logger, opts.rounds, workers)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", opts.cfg.DecisionWorkers, "Firms deciding in parallel")
	return cmd
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Replay decisions from a YAML script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, logger, err := opts.load()
			if err != nil {
				return err
			}
			s, err := script.Load(args[0])
			if err != nil {
				return fmt.Errorf("load script: %w", err)
			}
			rounds := opts.rounds
			if !cmd.Flags().Changed("rounds") {
				rounds = s.Rounds()
			}
			return opts.run(cmd.Context(), sc, s.Deciders(), logger, rounds, 1)
		},
	}
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the strategy names a scenario may use",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range strategy.Names() {
				printInfo(name)
			}
			return nil
		},
	}
}

func (o *rootOptions) load() (config.Scenario, *slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(o.logLevel))); err != nil {
		return config.Scenario{}, nil, fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var sc config.Scenario
	switch {
	case strings.TrimSpace(o.scenario) != "":
		loaded, err := config.LoadScenario(o.scenario, o.cfg)
		if err != nil {
			return config.Scenario{}, nil, err
		}
		sc = loaded
	case o.established:
		sc = config.EstablishedScenario(o.cfg)
	default:
		sc = config.DefaultScenario(o.cfg)
	}
	return sc, logger, nil
}

func (o *rootOptions) run(ctx context.Context, sc config.Scenario, deciders map[string]game.Decider, logger *slog.Logger, rounds int64, workers int) error {
	market, err := sc.BuildMarket()
	if err != nil {
		return err
	}
	svc, err := game.NewService(market, deciders, logger,
		game.WithMaxRounds(rounds),
		game.WithDecisionWorkers(workers),
	)
	if err != nil {
		return err
	}

	renderIntro(svc.Market(), svc.RunID())
	err = svc.Run(ctx, func(report game.RoundReport) error {
		renderRound(report, o.stages)
		return nil
	})
	renderSummary(svc.Market())
	return err
}

func strategyDeciders(sc config.Scenario) (map[string]game.Decider, error) {
	out := make(map[string]game.Decider, len(sc.Firms))
	for _, f := range sc.Firms {
		if strings.TrimSpace(f.Strategy) == "" {
			return nil, fmt.Errorf("firm %q has no strategy; pick one of %s", f.Name, strings.Join(strategy.Names(), ", "))
		}
		s, err := strategy.Parse(f.Strategy)
		if err != nil {
			return nil, fmt.Errorf("firm %q: %w", f.Name, err)
		}
		out[f.Name] = s
	}
	return out, nil
}
