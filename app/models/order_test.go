package models_test

import (
	"strings"
	"testing"

	"github.com/shashiranjanraj/lastbite/app/models"
)

func TestNewOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := models.NewOrderNumber()
		if !strings.HasPrefix(n, "LB-") || len(n) != 13 {
			t.Fatalf("unexpected format: %q", n)
		}
		if strings.ContainsAny(n[3:], "01IO") {
			t.Errorf("ambiguous character in %q", n)
		}
		if seen[n] {
			t.Fatalf("duplicate number after %d draws: %q", i, n)
		}
		seen[n] = true
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.OrderConfirmed, models.OrderReady, true},
		{models.OrderConfirmed, models.OrderCancelled, true},
		{models.OrderConfirmed, models.OrderPickedUp, false},
		{models.OrderReady, models.OrderPickedUp, true},
		{models.OrderReady, models.OrderCancelled, true},
		{models.OrderPickedUp, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderReady, false},
	}

	for _, tc := range cases {
		o := models.Order{Status: tc.from}
		if got := o.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
