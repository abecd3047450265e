// Package strategy turns a firm's danger signals into a round decision. Each
// ownership model pursues a different objective: founders maximize wages,
// shareholders the share price, stakeholders the preference fulfillment of
// employees and users alike.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stakeholder/internal/game"
)

type Objective string

const (
	WageMaximizing       Objective = "wage"
	SharePriceMaximizing Objective = "share-price"
	PreferenceMaximizing Objective = "preference"
)

type Ownership string

const (
	Founder     Ownership = "founder"
	Shareholder Ownership = "shareholder"
	Stakeholder Ownership = "stakeholder"
)

// DefaultHire is the smallest team a strategy asks for.
const DefaultHire = int64(5)

var ErrUnknownStrategy = errors.New("unknown strategy")

var ownershipObjectives = map[Ownership]Objective{
	Founder:     WageMaximizing,
	Shareholder: SharePriceMaximizing,
	Stakeholder: PreferenceMaximizing,
}

type Strategy struct {
	Objective Objective
}

func New(o Objective) (Strategy, error) {
	switch o {
	case WageMaximizing, SharePriceMaximizing, PreferenceMaximizing:
		return Strategy{Objective: o}, nil
	default:
		return Strategy{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, o)
	}
}

func ForOwnership(o Ownership) (Strategy, error) {
	obj, ok := ownershipObjectives[o]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: ownership %q", ErrUnknownStrategy, o)
	}
	return Strategy{Objective: obj}, nil
}

// Parse accepts either an objective ("wage") or an ownership model ("founder").
func Parse(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if s, err := ForOwnership(Ownership(name)); err == nil {
		return s, nil
	}
	return New(Objective(name))
}

// Names lists every accepted Parse input.
func Names() []string {
	return []string{
		string(Founder), string(Shareholder), string(Stakeholder),
		string(WageMaximizing), string(SharePriceMaximizing), string(PreferenceMaximizing),
	}
}

func (s Strategy) String() string {
	return string(s.Objective)
}

func (s Strategy) Decide(_ context.Context, firm game.FirmView, market game.MarketView) (game.Decision, error) {
	ed := firm.EmployeeDanger
	cd := firm.CustomerDanger

	var d game.Decision
	switch s.Objective {
	case WageMaximizing:
		d.FundsToWagePct = 50 + ed/2
		d.PromotionWageShare = 10
	case SharePriceMaximizing:
		d.FundsToWagePct = 30 + ed/4
		d.PromotionWageShare = max(50-cd/4, 0)
		d.SharesToSell = 10
	case PreferenceMaximizing:
		d.FundsToWagePct = 40 + ed/3
		d.SharesToSell = 5
	default:
		return game.Decision{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, s.Objective)
	}
	d.FundsToWagePct = min(d.FundsToWagePct, game.MaxPercent)
	d.UsefulnessWageShare = game.MaxPercent - d.PromotionWageShare
	d.HireCount = s.hireCount(firm, market, d.FundsToWagePct)
	d.FundsToWagePct = payrollGuard(firm, d.FundsToWagePct, d.HireCount)
	d.Servings = servings(firm, market, d.UsefulnessWageShare)
	if firm.Established {
		d.SharesToSell = 0
	}
	return d, nil
}

// hireCount keeps the current team, grows it when the labor market looks
// calm, and never asks for more heads than the budget can pay minimum wage.
func (s Strategy) hireCount(firm game.FirmView, market game.MarketView, wagePct int64) int64 {
	target := max(firm.Employees, DefaultHire)
	if s.Objective != WageMaximizing {
		target += (game.MaxPercent - firm.EmployeeDanger) / 25
	}
	if market.MinWage > 0 {
		affordable := firm.CurrentFunds * wagePct / game.MaxPercent / market.MinWage
		if affordable >= 1 && target > affordable {
			target = affordable
		}
	}
	if market.LaborSupply > 0 && target > market.LaborSupply {
		target = market.LaborSupply
	}
	return max(target, 1)
}

// payrollGuard caps the wage budget so that paying the per-head wage to the
// current team never exceeds current funds.
func payrollGuard(firm game.FirmView, wagePct, hire int64) int64 {
	if firm.Employees <= hire {
		return wagePct
	}
	return min(wagePct, game.MaxPercent*hire/firm.Employees)
}

// servings is the largest run that keeps usefulness at the market floor,
// capped at an even split of the users.
func servings(firm game.FirmView, market game.MarketView, usefulnessShare int64) int64 {
	fair := market.Users / int64(max(len(market.Firms), 1))
	n := fair
	if market.MinUsefulnessPerUser > 0 {
		n = min(firm.Employees*usefulnessShare/market.MinUsefulnessPerUser, fair)
	}
	return max(n, 1)
}
