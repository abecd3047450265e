package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"stakeholder/internal/game"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

const defaultWidth = 80

func setupColor() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
}

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func banner(title string) {
	if color.NoColor {
		fmt.Printf("\n== %s ==\n", title)
		return
	}
	fmt.Println(bannerStyle.Width(min(termWidth(), defaultWidth) - 2).Render(title))
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderIntro(m game.MarketView, runID string) {
	banner("Market opens")
	fmt.Printf("Run:            %s\n", runID)
	fmt.Printf("Labor supply:   %s workers at a minimum wage of %s\n", comma(m.LaborSupply), comma(m.MinWage))
	fmt.Printf("Users:          %s wanting usefulness of at least %s\n", comma(m.Users), comma(m.MinUsefulnessPerUser))
	fmt.Println()
	renderFirms(m)
}

func renderRound(r game.RoundReport, stages bool) {
	banner(fmt.Sprintf("Round %d", r.Round))
	for _, st := range r.Stages {
		if st.Stage == game.StageDecisions {
			continue
		}
		if stages {
			accent.Printf("\n%s\n", stageTitle(st.Stage))
			renderFirms(st.Market)
		}
		for _, ev := range st.Events {
			renderEvent(ev)
		}
	}

	fmt.Println()
	fmt.Printf("Goods order: %s\n", strings.Join(r.GoodsRank, ", "))
	fmt.Printf("Labor order: %s\n", strings.Join(r.LaborRank, ", "))
	if !stages {
		fmt.Println()
		renderFirms(r.Final())
	}
	fmt.Println()
	renderStandings(r.Standings)
}

func renderEvent(ev game.Event) {
	line := fmt.Sprintf("[%s] %s", stageTitle(ev.Stage), ev.Message)
	if ev.Kind == game.EventBankrupt {
		printError(line)
		return
	}
	printWarn(line)
}

func renderFirms(m game.MarketView) {
	if len(m.Firms) == 0 {
		printInfo("No firms are trading.")
		return
	}
	accent.Println("Firms")
	fmt.Printf("%-24s %10s %8s %6s %6s %8s %6s %8s %6s %4s %4s %7s\n",
		"FIRM", "FUNDS", "TREND", "STAFF", "WAGE", "USEFUL", "SOLD", "SHARES", "PRICE", "UPF", "EPF", "DANGER")
	for _, f := range m.Firms {
		fmt.Printf("%-24s %10s %8s %6d %6d %8d %6d %8d %6d %4d %4d %7s\n",
			truncate(f.Name, 24),
			comma(f.CurrentFunds),
			colorize(f.ProfitTrend),
			f.Employees,
			f.WageAmount,
			f.Usefulness,
			f.UnitsSold,
			f.SharesRemaining,
			f.SharePrice,
			f.UserPreferenceFulfillment,
			f.EmployeePreferenceFulfillment,
			dangerPair(f),
		)
	}
	fmt.Printf("Workers left: %d of %d   Users left: %d of %d\n", m.WorkersLeft, m.LaborSupply, m.UsersLeft, m.Users)
}

func renderStandings(rows []game.StandingRow) {
	accent.Println("Standings")
	if len(rows) == 0 {
		printInfo("Every firm has gone bankrupt.")
		return
	}
	fmt.Printf("%-4s %-24s %10s %6s %6s\n", "RANK", "FIRM", "FUNDS", "PRICE", "STAFF")
	for _, row := range rows {
		line := fmt.Sprintf("%-4d %-24s %10s %6d %6d", row.Rank, truncate(row.Firm, 24), comma(row.CurrentFunds), row.SharePrice, row.Employees)
		if row.Rank == 1 {
			success.Println(line)
			continue
		}
		fmt.Println(line)
	}
}

func renderSummary(m game.MarketView) {
	banner(fmt.Sprintf("Finished after %d rounds", m.Round))
	if len(m.Firms) == 0 {
		printError("No firm survived.")
		return
	}
	renderFirms(m)
}

func stageTitle(s game.Stage) string {
	return strings.ReplaceAll(string(s), "_", " ")
}

func dangerPair(f game.FirmView) string {
	if !f.Established {
		return "-"
	}
	return fmt.Sprintf("%d/%d", f.EmployeeDanger, f.CustomerDanger)
}

func colorize(v int64) string {
	text := strconv.FormatInt(v, 10)
	switch {
	case v > 0:
		return success.Sprint("+" + text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func comma(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		b.WriteByte(',')
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
