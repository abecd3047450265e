package game

import (
	"fmt"
	"slices"
	"strings"
)

// Firm is one competitor's financial and operational state. Firms are held by
// value inside a Market; stages copy before mutating.
type Firm struct {
	Name        string
	Established bool

	SharesRemaining  int64
	SharesToSell     int64
	ShareMarketBoost int64
	SharePrice       int64

	Employees    int64
	NumberToHire int64
	WageAmount   int64

	CurrentFunds  int64
	PreviousFunds []int64 // most recent first
	ProfitTrend   int64

	Usefulness int64
	Servings   int64
	UnitsSold  int64

	UserPreferenceFulfillment     int64
	EmployeePreferenceFulfillment int64

	EmployeeDanger int64
	CustomerDanger int64
}

// NewFirm builds a pre-IPO firm with no history.
func NewFirm(name string, startingShares, startingFunds int64) (Firm, error) {
	if err := ValidateFirmName(name); err != nil {
		return Firm{}, err
	}
	if startingShares < 0 || startingFunds < 0 {
		return Firm{}, fmt.Errorf("new firm %q: starting shares and funds must be >= 0", name)
	}
	return Firm{
		Name:            strings.TrimSpace(name),
		SharesRemaining: startingShares,
		CurrentFunds:    startingFunds,
	}, nil
}

type EstablishedFirmParams struct {
	Name          string
	Funds         int64
	PreviousFunds []int64
	ProfitTrend   int64
	Employees     int64
}

// NewEstablishedFirm builds a post-IPO firm seeded with history so it skips the
// bootstrap rounds. Its share float is closed.
func NewEstablishedFirm(p EstablishedFirmParams) (Firm, error) {
	if err := ValidateFirmName(p.Name); err != nil {
		return Firm{}, err
	}
	if p.Funds < 0 || p.Employees < 0 {
		return Firm{}, fmt.Errorf("new established firm %q: funds and employees must be >= 0", p.Name)
	}
	return Firm{
		Name:          strings.TrimSpace(p.Name),
		Established:   true,
		CurrentFunds:  p.Funds,
		PreviousFunds: slices.Clone(p.PreviousFunds),
		ProfitTrend:   p.ProfitTrend,
		Employees:     p.Employees,
	}, nil
}

// SameFirm reports whether two firms are the same entity. Identity is the name.
func (f Firm) SameFirm(other Firm) bool {
	return f.Name == other.Name
}

func (f Firm) clone() Firm {
	f.PreviousFunds = slices.Clone(f.PreviousFunds)
	return f
}

// ApplyDecision derives this round's wage, usefulness and promotion figures
// from d. Usefulness and promotion are driven by last round's headcount since
// this round's hiring has not cleared yet. The receiver is left unchanged.
func (f Firm) ApplyDecision(d Decision) (Firm, error) {
	if err := d.Validate(); err != nil {
		return f, fmt.Errorf("apply decision for %q: %w", f.Name, err)
	}
	next := f.clone()
	next.WageAmount = f.CurrentFunds * d.FundsToWagePct / MaxPercent / d.HireCount
	next.NumberToHire = d.HireCount
	next.Usefulness = f.Employees * d.UsefulnessWageShare / d.Servings
	next.Servings = d.Servings
	next.ShareMarketBoost = f.Employees * d.PromotionWageShare
	next.SharesToSell = d.SharesToSell
	if f.Established {
		next.SharesToSell = 0
	}
	return next, nil
}

// View returns a read-only copy for display and decision collaborators.
func (f Firm) View() FirmView {
	return FirmView{
		Name:                          f.Name,
		Established:                   f.Established,
		CurrentFunds:                  f.CurrentFunds,
		PreviousFunds:                 slices.Clone(f.PreviousFunds),
		ProfitTrend:                   f.ProfitTrend,
		Employees:                     f.Employees,
		NumberToHire:                  f.NumberToHire,
		WageAmount:                    f.WageAmount,
		Usefulness:                    f.Usefulness,
		Servings:                      f.Servings,
		UnitsSold:                     f.UnitsSold,
		UserPreferenceFulfillment:     f.UserPreferenceFulfillment,
		EmployeePreferenceFulfillment: f.EmployeePreferenceFulfillment,
		SharesRemaining:               f.SharesRemaining,
		SharesToSell:                  f.SharesToSell,
		SharePrice:                    f.SharePrice,
		ShareMarketBoost:              f.ShareMarketBoost,
		EmployeeDanger:                f.EmployeeDanger,
		CustomerDanger:                f.CustomerDanger,
	}
}
