package game

import (
	"cmp"
	"fmt"
	"slices"
)

// Market owns the labor and user pools and the competing firms. Every stage
// method works on a copy and returns the resolved market, so a caller holding
// the previous value never observes a half-cleared round.
type Market struct {
	Firms []Firm

	LaborSupply int64
	WorkersLeft int64
	MinWage     int64

	Users                int64
	UsersLeft            int64
	MinUsefulnessPerUser int64
}

func NewMarket(laborSupply, minWage, users, minUsefulness int64) (Market, error) {
	if laborSupply < 0 || minWage < 0 || users < 0 || minUsefulness < 0 {
		return Market{}, fmt.Errorf("%w: pools and floors must be >= 0", ErrInvalidMarket)
	}
	return Market{
		LaborSupply:          laborSupply,
		WorkersLeft:          laborSupply,
		MinWage:              minWage,
		Users:                users,
		UsersLeft:            users,
		MinUsefulnessPerUser: minUsefulness,
	}, nil
}

// AddFirm returns a market that also holds f. Names must be unique.
func (m Market) AddFirm(f Firm) (Market, error) {
	if err := ValidateFirmName(f.Name); err != nil {
		return m, err
	}
	if _, ok := m.index(f.Name); ok {
		return m, fmt.Errorf("%w: %s", ErrDuplicateFirm, f.Name)
	}
	next := m.Clone()
	next.Firms = append(next.Firms, f.clone())
	return next, nil
}

func (m Market) Clone() Market {
	next := m
	next.Firms = make([]Firm, len(m.Firms))
	for i, f := range m.Firms {
		next.Firms[i] = f.clone()
	}
	return next
}

func (m Market) index(name string) (int, bool) {
	for i, f := range m.Firms {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Firm looks a firm up by name.
func (m Market) Firm(name string) (Firm, error) {
	i, ok := m.index(name)
	if !ok {
		return Firm{}, fmt.Errorf("%w: %s", ErrUnknownFirm, name)
	}
	return m.Firms[i].clone(), nil
}

func (m Market) View(round int64) MarketView {
	firms := make([]FirmView, len(m.Firms))
	for i, f := range m.Firms {
		firms[i] = f.View()
	}
	return MarketView{
		Round:                round,
		LaborSupply:          m.LaborSupply,
		WorkersLeft:          m.WorkersLeft,
		MinWage:              m.MinWage,
		Users:                m.Users,
		UsersLeft:            m.UsersLeft,
		MinUsefulnessPerUser: m.MinUsefulnessPerUser,
		Firms:                firms,
	}
}

type rankedFirm struct {
	index int
	key   int64
}

// rankBy returns firm indexes ordered by key, highest first. Ties keep input order.
func rankBy(firms []Firm, key func(Firm) int64) []int {
	ranked := make([]rankedFirm, len(firms))
	for i, f := range firms {
		ranked[i] = rankedFirm{index: i, key: key(f)}
	}
	slices.SortStableFunc(ranked, func(a, b rankedFirm) int {
		return cmp.Compare(b.key, a.key)
	})
	order := make([]int, len(ranked))
	for i, r := range ranked {
		order[i] = r.index
	}
	return order
}

func byUsefulness(f Firm) int64 { return f.Usefulness }
func byWage(f Firm) int64       { return f.WageAmount }
func byFunds(f Firm) int64      { return f.CurrentFunds }

func (m Market) rankedNames(key func(Firm) int64) []string {
	order := rankBy(m.Firms, key)
	names := make([]string, len(order))
	for i, idx := range order {
		names[i] = m.Firms[idx].Name
	}
	return names
}

// GoodsRank is the order in which firms reach users.
func (m Market) GoodsRank() []string { return m.rankedNames(byUsefulness) }

// LaborRank is the order in which firms reach workers.
func (m Market) LaborRank() []string { return m.rankedNames(byWage) }

func (m Market) Standings() []StandingRow {
	order := rankBy(m.Firms, byFunds)
	rows := make([]StandingRow, len(order))
	for i, idx := range order {
		f := m.Firms[idx]
		rows[i] = StandingRow{
			Rank:         int64(i + 1),
			Firm:         f.Name,
			CurrentFunds: f.CurrentFunds,
			SharePrice:   f.SharePrice,
			Employees:    f.Employees,
		}
	}
	return rows
}

// SellGoods lets users buy from the most useful firms first. Revenue follows
// units sold, not usefulness; once users run out, lower ranked firms sell nothing.
func (m Market) SellGoods() (Market, []Event) {
	next := m.Clone()
	next.UsersLeft = next.Users
	var events []Event
	for _, i := range rankBy(next.Firms, byUsefulness) {
		f := &next.Firms[i]
		f.PreviousFunds = slices.Insert(f.PreviousFunds, 0, f.CurrentFunds)
		f.UnitsSold = 0
		f.UserPreferenceFulfillment = 0
		if f.Usefulness < next.MinUsefulnessPerUser {
			events = append(events, Event{
				Stage:   StageGoods,
				Kind:    EventBelowUsefulness,
				Firm:    f.Name,
				Message: fmt.Sprintf("%s usefulness %d is below the %d users accept", f.Name, f.Usefulness, next.MinUsefulnessPerUser),
			})
			continue
		}
		sold := f.Servings
		if next.UsersLeft < sold {
			sold = next.UsersLeft
			events = append(events, Event{
				Stage:   StageGoods,
				Kind:    EventUsersExhausted,
				Firm:    f.Name,
				Message: fmt.Sprintf("not enough unsatisfied users left for %s to sell to (%d of %d)", f.Name, sold, f.Servings),
			})
		}
		f.UnitsSold = sold
		f.UserPreferenceFulfillment = f.Usefulness * sold
		f.CurrentFunds += PricePerServing * sold
		next.UsersLeft -= sold
	}
	return next, events
}

// PayEmployees debits wages for last round's headcount. A firm that cannot
// cover its payroll is dropped from the market for good.
func (m Market) PayEmployees() (Market, []Event) {
	next := m.Clone()
	survivors := make([]Firm, 0, len(next.Firms))
	var events []Event
	for _, f := range next.Firms {
		pay := f.WageAmount * f.Employees
		if pay > f.CurrentFunds {
			events = append(events, Event{
				Stage:   StageWages,
				Kind:    EventBankrupt,
				Firm:    f.Name,
				Message: fmt.Sprintf("%s cannot pay employees %d with funds %d", f.Name, pay, f.CurrentFunds),
			})
			continue
		}
		f.CurrentFunds -= pay
		survivors = append(survivors, f)
	}
	next.Firms = survivors
	return next, events
}

func (m Market) SetSharePrices() Market {
	next := m.Clone()
	for i := range next.Firms {
		f := &next.Firms[i]
		price := (f.CurrentFunds + f.ProfitTrend + f.ShareMarketBoost) / SharePriceDivisor
		f.SharePrice = max(price, 0)
	}
	return next
}

// SellShares floats pre-IPO shares at the current price, then refreshes every
// firm's profit trend. Established firms have no float left to sell.
func (m Market) SellShares() (Market, []Event) {
	next := m.Clone()
	var events []Event
	for i := range next.Firms {
		f := &next.Firms[i]
		if !f.Established {
			sold := f.SharesToSell
			if sold > f.SharesRemaining {
				events = append(events, Event{
					Stage:   StageShares,
					Kind:    EventSharesOversold,
					Firm:    f.Name,
					Message: fmt.Sprintf("%s does not have enough shares remaining (%d of %d)", f.Name, f.SharesRemaining, sold),
				})
				sold = f.SharesRemaining
			}
			f.CurrentFunds += f.SharePrice * sold
			f.SharesRemaining -= sold
		}
		if trend, err := ProfitTrend(f.CurrentFunds, f.PreviousFunds); err == nil {
			f.ProfitTrend = trend
		}
	}
	return next, events
}

// RecruitEmployees hands workers to the best paying firms first, then scores
// danger signals for established firms against the cleared market.
func (m Market) RecruitEmployees() (Market, []Event) {
	next := m.Clone()
	next.WorkersLeft = next.LaborSupply
	var events []Event
	for _, i := range rankBy(next.Firms, byWage) {
		f := &next.Firms[i]
		f.Employees = 0
		f.EmployeePreferenceFulfillment = 0
		if f.WageAmount < next.MinWage {
			events = append(events, Event{
				Stage:   StageLabor,
				Kind:    EventBelowMinWage,
				Firm:    f.Name,
				Message: fmt.Sprintf("%s wage %d is below the minimum wage %d", f.Name, f.WageAmount, next.MinWage),
			})
			continue
		}
		hired := f.NumberToHire
		if next.WorkersLeft < hired {
			hired = next.WorkersLeft
			events = append(events, Event{
				Stage:   StageLabor,
				Kind:    EventWorkersExhausted,
				Firm:    f.Name,
				Message: fmt.Sprintf("not enough workers left for %s to hire (%d of %d)", f.Name, hired, f.NumberToHire),
			})
		}
		f.Employees = hired
		f.EmployeePreferenceFulfillment = f.WageAmount * hired
		next.WorkersLeft -= hired
	}

	for i := range next.Firms {
		if !next.Firms[i].Established {
			continue
		}
		customer := CustomerDanger(next, i)
		employee := EmployeeDanger(next, i)
		next.Firms[i].CustomerDanger = customer
		next.Firms[i].EmployeeDanger = employee
	}
	return next, events
}
