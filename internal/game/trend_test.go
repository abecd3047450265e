package game

import (
	"errors"
	"testing"
)

func TestProfitTrend(t *testing.T) {
	tests := []struct {
		name     string
		current  int64
		previous []int64
		want     int64
	}{
		{name: "single entry", current: 150, previous: []int64{100}, want: 50},
		{name: "single entry loss", current: 0, previous: []int64{2}, want: -2},
		{name: "two entries", current: 130, previous: []int64{100, 40}, want: 45},
		{name: "two entries truncates toward zero", current: 0, previous: []int64{1, 1}, want: 0},
		{name: "three entries", current: 130, previous: []int64{100, 40, 70}, want: 20},
		{name: "older history ignored", current: 130, previous: []int64{100, 40, 70, 9999}, want: 20},
	}
	for _, tc := range tests {
		got, err := ProfitTrend(tc.current, tc.previous)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got=%d want=%d", tc.name, got, tc.want)
		}
	}
}

func TestProfitTrendEmptyHistory(t *testing.T) {
	if _, err := ProfitTrend(10, nil); !errors.Is(err, ErrEmptyHistory) {
		t.Fatalf("expected ErrEmptyHistory, got %v", err)
	}
}
