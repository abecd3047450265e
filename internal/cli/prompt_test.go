package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"stakeholder/internal/game"
)

func TestPromptDeciderPreIPO(t *testing.T) {
	in := strings.NewReader("50\n5\n80\n10\n20\n")
	var out bytes.Buffer
	p := NewPromptDecider(in, &out)

	got, err := p.Decide(context.Background(), game.FirmView{Name: "A", SharesRemaining: 100}, game.MarketView{Round: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := game.Decision{FundsToWagePct: 50, HireCount: 5, UsefulnessWageShare: 80, Servings: 10, PromotionWageShare: 20, SharesToSell: 20}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("prompted decision should validate: %v", err)
	}
	if !strings.Contains(out.String(), "promotion: 20") {
		t.Fatalf("promotion share not announced:\n%s", out.String())
	}
}

func TestPromptDeciderEstablishedSkipsShares(t *testing.T) {
	in := strings.NewReader("30\n2\n100\n4\n")
	p := NewPromptDecider(in, io.Discard)

	got, err := p.Decide(context.Background(), game.FirmView{Name: "A", Established: true}, game.MarketView{Round: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.SharesToSell != 0 || got.PromotionWageShare != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestPromptDeciderRepromptsBadInput(t *testing.T) {
	// wage: "abc" then 150 then 40; hire: 0 then 3; shares: 500 then 7
	in := strings.NewReader("abc\n150\n40\n0\n3\n60\n2\n500\n7")
	var out bytes.Buffer
	p := NewPromptDecider(in, &out)

	got, err := p.Decide(context.Background(), game.FirmView{Name: "A", SharesRemaining: 90}, game.MarketView{Round: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FundsToWagePct != 40 || got.HireCount != 3 || got.SharesToSell != 7 {
		t.Fatalf("got %+v", got)
	}
	if n := strings.Count(out.String(), "Value must be"); n != 3 {
		t.Fatalf("range warnings got=%d want=3", n)
	}
	if !strings.Contains(out.String(), "Enter a whole number.") {
		t.Fatalf("missing parse warning:\n%s", out.String())
	}
}

func TestPromptDeciderInputEnds(t *testing.T) {
	p := NewPromptDecider(strings.NewReader("50\n"), io.Discard)
	_, err := p.Decide(context.Background(), game.FirmView{Name: "A"}, game.MarketView{Round: 1})
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	p = NewPromptDecider(strings.NewReader("50\nx"), io.Discard)
	_, err = p.Decide(context.Background(), game.FirmView{Name: "A"}, game.MarketView{Round: 1})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestPromptDeciderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPromptDecider(strings.NewReader("50\n"), io.Discard)
	if _, err := p.Decide(ctx, game.FirmView{Name: "A"}, game.MarketView{Round: 1}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
