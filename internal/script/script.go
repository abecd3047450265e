// Package script replays pre-written decisions, one list per firm, so a
// playthrough can be rerun without prompting.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stakeholder/internal/game"
)

var ErrScriptExhausted = errors.New("decision script has no entry for this round")

type Script struct {
	Firms map[string][]game.Decision `yaml:"firms"`
}

func Load(path string) (Script, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (Script, error) {
	var out Script
	if len(raw) == 0 {
		return out, nil
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return Script{}, fmt.Errorf("parse decision script: %w", err)
	}
	return out, nil
}

// Rounds is the length of the longest firm script.
func (s Script) Rounds() int64 {
	var n int
	for _, decisions := range s.Firms {
		n = max(n, len(decisions))
	}
	return int64(n)
}

// Decider replays the scripted decision for the market's round, one-based.
func (s Script) Decider() game.Decider {
	return game.DeciderFunc(func(_ context.Context, firm game.FirmView, market game.MarketView) (game.Decision, error) {
		decisions, ok := s.Firms[firm.Name]
		if !ok {
			return game.Decision{}, fmt.Errorf("%w: %s", game.ErrUnknownFirm, firm.Name)
		}
		idx := market.Round - 1
		if idx < 0 || idx >= int64(len(decisions)) {
			return game.Decision{}, fmt.Errorf("%w: %s round %d", ErrScriptExhausted, firm.Name, market.Round)
		}
		return decisions[idx], nil
	})
}

// Deciders builds one decider per scripted firm.
func (s Script) Deciders() map[string]game.Decider {
	out := make(map[string]game.Decider, len(s.Firms))
	d := s.Decider()
	for name := range s.Firms {
		out[name] = d
	}
	return out
}
