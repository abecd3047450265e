package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Decider supplies one firm's decision for the upcoming round. It only sees
// read-only views and must not retain them across rounds.
type Decider interface {
	Decide(ctx context.Context, firm FirmView, market MarketView) (Decision, error)
}

type DeciderFunc func(ctx context.Context, firm FirmView, market MarketView) (Decision, error)

func (fn DeciderFunc) Decide(ctx context.Context, firm FirmView, market MarketView) (Decision, error) {
	return fn(ctx, firm, market)
}

type Option func(*Service)

// WithMaxRounds stops Run after n rounds. Zero means until every firm is gone.
func WithMaxRounds(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRounds = n
		}
	}
}

// WithDecisionWorkers bounds how many deciders are asked concurrently.
func WithDecisionWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

type Service struct {
	log      *slog.Logger
	mu       sync.Mutex
	runID    string
	market   Market
	deciders map[string]Decider

	round     int64
	maxRounds int64
	workers   int
}

func NewService(market Market, deciders map[string]Decider, logger *slog.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, f := range market.Firms {
		if deciders[f.Name] == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoDecider, f.Name)
		}
	}
	runID := uuid.NewString()
	s := &Service{
		log:      logger.With("run_id", runID),
		runID:    runID,
		market:   market.Clone(),
		deciders: deciders,
		workers:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) RunID() string {
	return s.runID
}

// Round is the number of rounds resolved so far.
func (s *Service) Round() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

func (s *Service) Market() MarketView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.View(s.round)
}

// Done reports whether the termination policy has been met: no firms left,
// or the round cap reached.
func (s *Service) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doneLocked()
}

func (s *Service) doneLocked() bool {
	if len(s.market.Firms) == 0 {
		return true
	}
	return s.maxRounds > 0 && s.round >= s.maxRounds
}

// Run resolves rounds until Done, handing each report to observe.
func (s *Service) Run(ctx context.Context, observe func(RoundReport) error) error {
	s.log.Info("simulation started", "firms", len(s.Market().Firms), "max_rounds", s.maxRounds)
	for !s.Done() {
		report, err := s.RunRound(ctx)
		if err != nil {
			return err
		}
		if observe != nil {
			if err := observe(report); err != nil {
				return err
			}
		}
	}
	final := s.Market()
	s.log.Info("simulation finished", "rounds", final.Round, "survivors", len(final.Firms))
	return nil
}

// RunRound collects every firm's decision, applies them and clears the five
// stages in order. The committed market only advances when the whole round
// succeeds; an invalid decision leaves it untouched.
func (s *Service) RunRound(ctx context.Context) (RoundReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return RoundReport{}, err
	}
	round := s.round + 1
	log := s.log.With("round", round)

	decisions, err := s.collectDecisions(ctx, s.market, round)
	if err != nil {
		return RoundReport{}, err
	}

	m := s.market.Clone()
	for i, f := range m.Firms {
		applied, err := f.ApplyDecision(decisions[f.Name])
		if err != nil {
			return RoundReport{}, fmt.Errorf("round %d: %w", round, err)
		}
		m.Firms[i] = applied
	}

	report := RoundReport{Round: round, Decisions: decisions}
	report.record(StageDecisions, m, nil)

	var events []Event
	report.GoodsRank = m.GoodsRank()
	m, events = m.SellGoods()
	report.record(StageGoods, m, events)

	m, events = m.PayEmployees()
	report.record(StageWages, m, events)
	for _, ev := range events {
		if ev.Kind == EventBankrupt {
			report.Bankrupt = append(report.Bankrupt, ev.Firm)
			log.Warn("firm bankrupt", "firm", ev.Firm, "detail", ev.Message)
		}
	}

	m = m.SetSharePrices()
	report.record(StagePrices, m, nil)

	m, events = m.SellShares()
	report.record(StageShares, m, events)

	report.LaborRank = m.LaborRank()
	m, events = m.RecruitEmployees()
	report.record(StageLabor, m, events)

	report.Standings = m.Standings()
	for _, ev := range report.Events() {
		if ev.Kind != EventBankrupt {
			log.Debug("clearing shortfall", "stage", ev.Stage, "kind", ev.Kind, "firm", ev.Firm)
		}
	}

	s.market = m
	s.round = round
	log.Info("round resolved",
		"survivors", len(m.Firms),
		"bankrupt", len(report.Bankrupt),
		"users_left", m.UsersLeft,
		"workers_left", m.WorkersLeft,
	)
	return report, nil
}

func (r *RoundReport) record(stage Stage, m Market, events []Event) {
	r.Stages = append(r.Stages, StageSnapshot{
		Stage:  stage,
		Market: m.View(r.Round),
		Events: events,
	})
}

// collectDecisions asks every firm's decider against the same pre-round view.
// Firms never see each other's choices, so the fan out order does not matter.
func (s *Service) collectDecisions(ctx context.Context, m Market, round int64) (map[string]Decision, error) {
	view := m.View(round)
	deciders := make([]Decider, len(view.Firms))
	for i, firm := range view.Firms {
		if deciders[i] = s.deciders[firm.Name]; deciders[i] == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoDecider, firm.Name)
		}
	}

	out := make([]Decision, len(view.Firms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, firm := range view.Firms {
		i, firm := i, firm
		decider := deciders[i]
		g.Go(func() error {
			d, err := decider.Decide(gctx, firm, view)
			if err != nil {
				return fmt.Errorf("decide for %q: %w", firm.Name, err)
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	decisions := make(map[string]Decision, len(out))
	for i, firm := range view.Firms {
		decisions[firm.Name] = out[i]
	}
	return decisions, nil
}
