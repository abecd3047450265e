package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// PricePerServing is what a user pays for one unit, regardless of its usefulness.
	PricePerServing = int64(10)

	// SharePriceDivisor scales funds, trend and promotion down to a per-share price.
	SharePriceDivisor = int64(100)

	// ScarcityWeight is how much the market-scarcity signal counts against the peer signal.
	ScarcityWeight = int64(3)

	MaxPercent = int64(100)

	maxFirmNameLen = 48
)

var (
	ErrInvalidDecision = errors.New("invalid decision")
	ErrInvalidFirmName = errors.New("firm name must be 1-48 characters")
	ErrDuplicateFirm   = errors.New("firm name already taken")
	ErrUnknownFirm     = errors.New("firm not found")
	ErrEmptyHistory    = errors.New("profit trend needs at least one previous funds entry")
	ErrNoDecider       = errors.New("no decider registered for firm")
	ErrInvalidMarket   = errors.New("invalid market parameters")
)

func ValidateFirmName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxFirmNameLen {
		return ErrInvalidFirmName
	}
	return nil
}

func invalidDecision(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDecision, fmt.Sprintf(format, args...))
}

func percentOf(part, whole int64) int64 {
	if whole <= 0 {
		return MaxPercent
	}
	return part * MaxPercent / whole
}

func clampPercent(v int64) int64 {
	if v < 0 {
		return 0
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}
