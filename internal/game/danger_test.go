package game

import "testing"

func dangerMarket() Market {
	return Market{
		LaborSupply: 100,
		WorkersLeft: 0,
		MinWage:     8,
		Users:       1000,
		UsersLeft:   400,
		Firms: []Firm{
			{Name: "X", Usefulness: 20, Servings: 50, WageAmount: 30},
			{Name: "Y", Usefulness: 10, Servings: 40, WageAmount: 10},
			{Name: "Z", Usefulness: 15, Servings: 40, WageAmount: 20},
		},
	}
}

func TestCustomerDanger(t *testing.T) {
	m := dangerMarket()
	tests := []struct {
		firm int
		want int64
	}{
		{firm: 0, want: 57}, // peer 50, scarcity 60
		{firm: 1, want: 70}, // below the peer mean: peer 100
		{firm: 2, want: 70}, // 600 vs mean 700: peer 100
	}
	for _, tc := range tests {
		got := CustomerDanger(m, tc.firm)
		if got != tc.want {
			t.Fatalf("firm=%s got=%d want=%d", m.Firms[tc.firm].Name, got, tc.want)
		}
	}
}

func TestEmployeeDanger(t *testing.T) {
	m := dangerMarket()
	tests := []struct {
		firm int
		want int64
	}{
		{firm: 0, want: 87},  // peer 50, scarcity 100
		{firm: 1, want: 100}, // peer 100, scarcity 100
		{firm: 2, want: 100}, // equal to the mean counts as danger
	}
	for _, tc := range tests {
		got := EmployeeDanger(m, tc.firm)
		if got != tc.want {
			t.Fatalf("firm=%s got=%d want=%d", m.Firms[tc.firm].Name, got, tc.want)
		}
	}
}

func TestDangerWithoutPeers(t *testing.T) {
	m := Market{
		LaborSupply: 100,
		WorkersLeft: 100,
		Users:       1000,
		UsersLeft:   1000,
		Firms:       []Firm{{Name: "solo", Usefulness: 20, Servings: 10, WageAmount: 12}},
	}
	if got := CustomerDanger(m, 0); got != 25 {
		t.Fatalf("customer got=%d want=25", got)
	}
	if got := EmployeeDanger(m, 0); got != 25 {
		t.Fatalf("employee got=%d want=25", got)
	}
}

func TestDangerZeroCapacityIsFullScarcity(t *testing.T) {
	m := Market{Firms: []Firm{{Name: "solo"}}}
	if got := CustomerDanger(m, 0); got != 100 {
		t.Fatalf("customer got=%d want=100", got)
	}
	if got := EmployeeDanger(m, 0); got != 100 {
		t.Fatalf("employee got=%d want=100", got)
	}
}

func TestDangerStaysInRange(t *testing.T) {
	m := dangerMarket()
	for i := range m.Firms {
		for _, got := range []int64{CustomerDanger(m, i), EmployeeDanger(m, i)} {
			if got < 0 || got > 100 {
				t.Fatalf("firm=%s danger out of range: %d", m.Firms[i].Name, got)
			}
		}
	}
}
