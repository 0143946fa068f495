package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAmortizationSchedule(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("rejects non-positive tenure", func(t *testing.T) {
		for _, tenure := range []int{0, -1, -12} {
			_, err := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(12), decimal.NewFromInt(500), tenure, start)
			if err != ErrInvalidScheduleInput {
				t.Errorf("tenure %d: expected ErrInvalidScheduleInput, got %v", tenure, err)
			}
		}
	})

	t.Run("length equals tenure", func(t *testing.T) {
		schedule, err := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(12), decimal.NewFromInt(900), 12, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(schedule) != 12 {
			t.Errorf("expected 12 installments, got %d", len(schedule))
		}
	})

	t.Run("due dates advance by calendar month", func(t *testing.T) {
		schedule, err := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(12), decimal.NewFromInt(900), 3, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, inst := range schedule {
			want := start.AddDate(0, i+1, 0)
			if !inst.DueDate.Equal(want) {
				t.Errorf("installment %d: expected due date %v, got %v", inst.Number, want, inst.DueDate)
			}
			if inst.Number != i+1 {
				t.Errorf("expected number %d, got %d", i+1, inst.Number)
			}
		}
	})

	t.Run("first installment interest and principal", func(t *testing.T) {
		// 10000 at 12% annual: first month interest = 10000 * 0.01 = 100.
		schedule, err := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(12), decimal.NewFromInt(900), 12, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first := schedule[0]
		if !first.Interest.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected interest 100, got %s", first.Interest)
		}
		if !first.Principal.Equal(decimal.NewFromInt(800)) {
			t.Errorf("expected principal 800, got %s", first.Principal)
		}
		if !first.RemainingBalance.Equal(decimal.NewFromInt(9200)) {
			t.Errorf("expected balance 9200, got %s", first.RemainingBalance)
		}
	})

	t.Run("each installment splits into principal plus interest", func(t *testing.T) {
		emi := decimal.RequireFromString("888.49")
		schedule, err := AmortizationSchedule(decimal.NewFromInt(10000), decimal.NewFromInt(12), emi, 12, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, inst := range schedule {
			if !inst.Principal.Add(inst.Interest).Equal(emi) {
				t.Errorf("installment %d: principal %s + interest %s != emi %s",
					inst.Number, inst.Principal, inst.Interest, emi)
			}
		}
	})

	t.Run("displayed balance clamps at zero", func(t *testing.T) {
		// EMI far above amortizing level drives the balance negative fast.
		schedule, err := AmortizationSchedule(decimal.NewFromInt(1000), decimal.NewFromInt(12), decimal.NewFromInt(600), 3, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		last := schedule[len(schedule)-1]
		if !last.RemainingBalance.IsZero() {
			t.Errorf("expected clamped balance 0, got %s", last.RemainingBalance)
		}
	})

	t.Run("zero rate is pure principal", func(t *testing.T) {
		schedule, err := AmortizationSchedule(decimal.NewFromInt(1200), decimal.Zero, decimal.NewFromInt(100), 12, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, inst := range schedule {
			if !inst.Interest.IsZero() {
				t.Errorf("installment %d: expected zero interest, got %s", inst.Number, inst.Interest)
			}
		}
		if !schedule[11].RemainingBalance.IsZero() {
			t.Errorf("expected final balance 0, got %s", schedule[11].RemainingBalance)
		}
	})

	t.Run("negative principal when EMI below interest", func(t *testing.T) {
		// Interest on 100000 at 24% is 2000/month; EMI of 500 cannot cover it.
		schedule, err := AmortizationSchedule(decimal.NewFromInt(100000), decimal.NewFromInt(24), decimal.NewFromInt(500), 2, start)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		first := schedule[0]
		if !first.Principal.IsNegative() {
			t.Errorf("expected negative principal, got %s", first.Principal)
		}
		if first.RemainingBalance.LessThan(decimal.NewFromInt(100000)) {
			t.Errorf("expected balance to grow, got %s", first.RemainingBalance)
		}
	})
}

func TestMonthlyPayment(t *testing.T) {
	t.Run("rejects non-positive tenure", func(t *testing.T) {
		_, err := MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(12), 0)
		if err != ErrInvalidScheduleInput {
			t.Errorf("expected ErrInvalidScheduleInput, got %v", err)
		}
	})

	t.Run("zero rate divides principal evenly", func(t *testing.T) {
		emi, err := MonthlyPayment(decimal.NewFromInt(1200), decimal.Zero, 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emi.Equal(decimal.NewFromInt(100)) {
			t.Errorf("expected 100, got %s", emi)
		}
	})

	t.Run("standard annuity", func(t *testing.T) {
		// 10000 over 12 months at 12% annual: EMI = 888.49.
		emi, err := MonthlyPayment(decimal.NewFromInt(10000), decimal.NewFromInt(12), 12)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !emi.Equal(decimal.RequireFromString("888.49")) {
			t.Errorf("expected 888.49, got %s", emi)
		}
	})

	t.Run("derived EMI amortizes to near zero", func(t *testing.T) {
		principal := decimal.NewFromInt(250000)
		rate := decimal.RequireFromString("9.5")
		tenure := 24

		emi, err := MonthlyPayment(principal, rate, tenure)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		schedule, err := AmortizationSchedule(principal, rate, emi, tenure, time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Rounding to cents each month leaves at most a few cents per
		// installment of drift.
		final := schedule[len(schedule)-1].RemainingBalance
		if final.GreaterThan(decimal.NewFromInt(1)) {
			t.Errorf("expected final balance within 1.00, got %s", final)
		}
	})
}
