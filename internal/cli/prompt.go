package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"stakeholder/internal/game"
)

// PromptDecider asks a person at the terminal for each firm's decision.
type PromptDecider struct {
	mu     sync.Mutex
	in     *bufio.Reader
	out    io.Writer
	accent *color.Color
	warn   *color.Color
}

func NewPromptDecider(in io.Reader, out io.Writer) *PromptDecider {
	return &PromptDecider{
		in:     bufio.NewReader(in),
		out:    out,
		accent: color.New(color.FgCyan, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
	}
}

func (p *PromptDecider) Decide(ctx context.Context, firm game.FirmView, market game.MarketView) (game.Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accent.Fprintf(p.out, "\nRound %d decisions for %s\n", market.Round, firm.Name)
	fmt.Fprintf(p.out, "Funds %d, employees %d, share price %d\n", firm.CurrentFunds, firm.Employees, firm.SharePrice)

	var (
		d   game.Decision
		err error
	)
	if d.FundsToWagePct, err = p.promptRange(ctx, "Percent of funds to spend on wages", 0, game.MaxPercent); err != nil {
		return game.Decision{}, err
	}
	if d.HireCount, err = p.promptRange(ctx, "Number of workers to hire", 1, -1); err != nil {
		return game.Decision{}, err
	}
	if d.UsefulnessWageShare, err = p.promptRange(ctx, "Percent of wages spent on usefulness", 0, game.MaxPercent); err != nil {
		return game.Decision{}, err
	}
	if d.Servings, err = p.promptRange(ctx, "Servings to offer", 1, -1); err != nil {
		return game.Decision{}, err
	}
	d.PromotionWageShare = game.MaxPercent - d.UsefulnessWageShare
	fmt.Fprintf(p.out, "Percent of wages spent on promotion: %d\n", d.PromotionWageShare)

	if !firm.Established {
		if d.SharesToSell, err = p.promptRange(ctx, "Shares to sell", 0, firm.SharesRemaining); err != nil {
			return game.Decision{}, err
		}
	}
	return d, nil
}

// promptRange reads a whole number in [lo, hi]; hi < 0 means no upper bound.
func (p *PromptDecider) promptRange(ctx context.Context, label string, lo, hi int64) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if hi >= 0 {
			fmt.Fprintf(p.out, "%s (%d-%d): ", label, lo, hi)
		} else {
			fmt.Fprintf(p.out, "%s (>= %d): ", label, lo)
		}
		text, err := p.in.ReadString('\n')
		text = strings.TrimSpace(text)
		if err != nil && (err != io.EOF || text == "") {
			return 0, err
		}
		v, perr := strconv.ParseInt(text, 10, 64)
		switch {
		case perr != nil:
			p.warn.Fprintln(p.out, "Enter a whole number.")
		case v < lo || (hi >= 0 && v > hi):
			p.warn.Fprintln(p.out, outOfRange(lo, hi))
		default:
			return v, nil
		}
		if err == io.EOF {
			return 0, io.ErrUnexpectedEOF
		}
	}
}

func outOfRange(lo, hi int64) string {
	if hi < 0 {
		return fmt.Sprintf("Value must be >= %d", lo)
	}
	return fmt.Sprintf("Value must be between %d and %d", lo, hi)
}
