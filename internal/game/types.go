package game

type Decision struct {
	FundsToWagePct      int64 `json:"funds_to_wage_pct" yaml:"funds_to_wage_pct"`
	HireCount           int64 `json:"hire_count" yaml:"hire_count"`
	UsefulnessWageShare int64 `json:"usefulness_wage_share" yaml:"usefulness_wage_share"`
	Servings            int64 `json:"servings" yaml:"servings"`
	PromotionWageShare  int64 `json:"promotion_wage_share" yaml:"promotion_wage_share"`
	SharesToSell        int64 `json:"shares_to_sell" yaml:"shares_to_sell"`
}

// Validate checks the preconditions ApplyDecision relies on. Every failure
// wraps ErrInvalidDecision.
func (d Decision) Validate() error {
	if d.Servings <= 0 {
		return invalidDecision("servings must be > 0, got %d", d.Servings)
	}
	if d.HireCount <= 0 {
		return invalidDecision("hire count must be > 0, got %d", d.HireCount)
	}
	if d.FundsToWagePct < 0 || d.FundsToWagePct > MaxPercent {
		return invalidDecision("funds to wage percentage must be between 0 and 100, got %d", d.FundsToWagePct)
	}
	if d.UsefulnessWageShare < 0 || d.PromotionWageShare < 0 {
		return invalidDecision("wage shares must be >= 0")
	}
	if d.UsefulnessWageShare+d.PromotionWageShare != MaxPercent {
		return invalidDecision("wage portions must sum to 100, got %d", d.UsefulnessWageShare+d.PromotionWageShare)
	}
	if d.SharesToSell < 0 {
		return invalidDecision("shares to sell must be >= 0, got %d", d.SharesToSell)
	}
	return nil
}

type FirmView struct {
	Name                          string  `json:"name"`
	Established                   bool    `json:"established"`
	CurrentFunds                  int64   `json:"current_funds"`
	PreviousFunds                 []int64 `json:"previous_funds"`
	ProfitTrend                   int64   `json:"profit_trend"`
	Employees                     int64   `json:"employees"`
	NumberToHire                  int64   `json:"number_to_hire"`
	WageAmount                    int64   `json:"wage_amount"`
	Usefulness                    int64   `json:"usefulness"`
	Servings                      int64   `json:"servings"`
	UnitsSold                     int64   `json:"units_sold"`
	UserPreferenceFulfillment     int64   `json:"user_preference_fulfillment"`
	EmployeePreferenceFulfillment int64   `json:"employee_preference_fulfillment"`
	SharesRemaining               int64   `json:"shares_remaining"`
	SharesToSell                  int64   `json:"shares_to_sell"`
	SharePrice                    int64   `json:"share_price"`
	ShareMarketBoost              int64   `json:"share_market_boost"`
	EmployeeDanger                int64   `json:"employee_danger"`
	CustomerDanger                int64   `json:"customer_danger"`
}

type MarketView struct {
	Round                int64      `json:"round"`
	LaborSupply          int64      `json:"labor_supply"`
	WorkersLeft          int64      `json:"workers_left"`
	MinWage              int64      `json:"min_wage"`
	Users                int64      `json:"users"`
	UsersLeft            int64      `json:"users_left"`
	MinUsefulnessPerUser int64      `json:"min_usefulness_per_user"`
	Firms                []FirmView `json:"firms"`
}

// Firm returns the view of the named firm.
func (v MarketView) Firm(name string) (FirmView, bool) {
	for _, f := range v.Firms {
		if f.Name == name {
			return f, true
		}
	}
	return FirmView{}, false
}

type Stage string

const (
	StageDecisions Stage = "decisions"
	StageGoods     Stage = "sell_goods"
	StageWages     Stage = "pay_employees"
	StagePrices    Stage = "set_share_prices"
	StageShares    Stage = "sell_shares"
	StageLabor     Stage = "recruit_employees"
)

type EventKind string

const (
	EventUsersExhausted   EventKind = "users_exhausted"
	EventBelowUsefulness  EventKind = "below_min_usefulness"
	EventBankrupt         EventKind = "bankrupt"
	EventSharesOversold   EventKind = "shares_oversold"
	EventWorkersExhausted EventKind = "workers_exhausted"
	EventBelowMinWage     EventKind = "below_min_wage"
)

// Event is a recoverable shortfall noticed while clearing a stage.
type Event struct {
	Stage   Stage     `json:"stage"`
	Kind    EventKind `json:"kind"`
	Firm    string    `json:"firm"`
	Message string    `json:"message"`
}

type StageSnapshot struct {
	Stage  Stage      `json:"stage"`
	Market MarketView `json:"market"`
	Events []Event    `json:"events,omitempty"`
}

type StandingRow struct {
	Rank         int64  `json:"rank"`
	Firm         string `json:"firm"`
	CurrentFunds int64  `json:"current_funds"`
	SharePrice   int64  `json:"share_price"`
	Employees    int64  `json:"employees"`
}

type RoundReport struct {
	Round     int64               `json:"round"`
	Decisions map[string]Decision `json:"decisions"`
	Stages    []StageSnapshot     `json:"stages"`
	Bankrupt  []string            `json:"bankrupt,omitempty"`
	GoodsRank []string            `json:"goods_rank"`
	LaborRank []string            `json:"labor_rank"`
	Standings []StandingRow       `json:"standings"`
}

// Events flattens the events of every stage in pipeline order.
func (r RoundReport) Events() []Event {
	var out []Event
	for _, s := range r.Stages {
		out = append(out, s.Events...)
	}
	return out
}

// Final returns the market as it stood after the last stage.
func (r RoundReport) Final() MarketView {
	if len(r.Stages) == 0 {
		return MarketView{}
	}
	return r.Stages[len(r.Stages)-1].Market
}
