package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"stakeholder/internal/game"
)

// Scenario describes the starting market and firms for one run.
type Scenario struct {
	Market MarketSpec `yaml:"market"`
	Firms  []FirmSpec `yaml:"firms"`
}

type MarketSpec struct {
	LaborSupply          int64 `yaml:"labor_supply"`
	MinWage              int64 `yaml:"min_wage"`
	Users                int64 `yaml:"users"`
	MinUsefulnessPerUser int64 `yaml:"min_usefulness_per_user"`
}

type FirmSpec struct {
	Name string `yaml:"name"`

	// Strategy is an ownership model (founder, shareholder, stakeholder) or an
	// objective (wage, share-price, preference). Only used by automated runs.
	Strategy string `yaml:"strategy,omitempty"`

	// Established firms start with history and a closed share float.
	Established   bool    `yaml:"established,omitempty"`
	Funds         int64   `yaml:"funds,omitempty"`
	Shares        int64   `yaml:"shares,omitempty"`
	PreviousFunds []int64 `yaml:"previous_funds,omitempty"`
	ProfitTrend   int64   `yaml:"profit_trend,omitempty"`
	Employees     int64   `yaml:"employees,omitempty"`
}

var ErrInvalidScenario = errors.New("invalid scenario")

func marketSpec(cfg SimConfig) MarketSpec {
	return MarketSpec{
		LaborSupply:          cfg.LaborSupply,
		MinWage:              cfg.MinWage,
		Users:                cfg.Users,
		MinUsefulnessPerUser: cfg.MinUsefulnessPerUser,
	}
}

// DefaultScenario is the founder / shareholder / stakeholder contest, every
// firm starting pre-IPO with the configured funds and shares.
func DefaultScenario(cfg SimConfig) Scenario {
	firm := func(name, strategy string) FirmSpec {
		return FirmSpec{Name: name, Strategy: strategy, Funds: cfg.StartingFunds, Shares: cfg.StartingShares}
	}
	return Scenario{
		Market: marketSpec(cfg),
		Firms: []FirmSpec{
			firm("the founder-owned firm", "founder"),
			firm("the shareholder-owned firm", "shareholder"),
			firm("the stakeholder-owned firm", "stakeholder"),
		},
	}
}

// EstablishedScenario seeds the same three firms with a few rounds of history
// so danger signals are meaningful from the first round.
func EstablishedScenario(cfg SimConfig) Scenario {
	firm := func(name, strategy string) FirmSpec {
		funds := cfg.StartingFunds * 10
		return FirmSpec{
			Name:          name,
			Strategy:      strategy,
			Established:   true,
			Funds:         funds,
			PreviousFunds: []int64{funds * 95 / 100, funds * 90 / 100, funds * 85 / 100},
			ProfitTrend:   funds * 5 / 100,
			Employees:     cfg.LaborSupply / 5,
		}
	}
	return Scenario{
		Market: marketSpec(cfg),
		Firms: []FirmSpec{
			firm("the founder-owned firm", "founder"),
			firm("the shareholder-owned firm", "shareholder"),
			firm("the stakeholder-owned firm", "stakeholder"),
		},
	}
}

// LoadScenario reads a YAML scenario. Market fields left out fall back to cfg;
// firm funds and shares left at zero fall back to the configured starting values.
func LoadScenario(path string, cfg SimConfig) (Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	sc := Scenario{Market: marketSpec(cfg)}
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	for i := range sc.Firms {
		f := &sc.Firms[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Funds == 0 {
			f.Funds = cfg.StartingFunds
		}
		if f.Shares == 0 && !f.Established {
			f.Shares = cfg.StartingShares
		}
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func (s Scenario) Validate() error {
	if len(s.Firms) == 0 {
		return fmt.Errorf("%w: at least one firm is required", ErrInvalidScenario)
	}
	seen := make(map[string]struct{}, len(s.Firms))
	for _, f := range s.Firms {
		if err := game.ValidateFirmName(f.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate firm %q", ErrInvalidScenario, f.Name)
		}
		seen[f.Name] = struct{}{}
		if f.Funds < 0 || f.Shares < 0 || f.Employees < 0 {
			return fmt.Errorf("%w: firm %q has negative funds, shares or employees", ErrInvalidScenario, f.Name)
		}
		if f.Established && len(f.PreviousFunds) == 0 {
			return fmt.Errorf("%w: established firm %q needs previous_funds", ErrInvalidScenario, f.Name)
		}
	}
	return nil
}

// BuildMarket turns the scenario into the round-zero market.
func (s Scenario) BuildMarket() (game.Market, error) {
	m, err := game.NewMarket(s.Market.LaborSupply, s.Market.MinWage, s.Market.Users, s.Market.MinUsefulnessPerUser)
	if err != nil {
		return game.Market{}, err
	}
	for _, spec := range s.Firms {
		var f game.Firm
		if spec.Established {
			f, err = game.NewEstablishedFirm(game.EstablishedFirmParams{
				Name:          spec.Name,
				Funds:         spec.Funds,
				PreviousFunds: spec.PreviousFunds,
				ProfitTrend:   spec.ProfitTrend,
				Employees:     spec.Employees,
			})
		} else {
			f, err = game.NewFirm(spec.Name, spec.Shares, spec.Funds)
			f.Employees = spec.Employees
		}
		if err != nil {
			return game.Market{}, err
		}
		if m, err = m.AddFirm(f); err != nil {
			return game.Market{}, err
		}
	}
	return m, nil
}
