package services

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"debtplan/internal/core"
	"debtplan/internal/log"
	"debtplan/internal/storage"
)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: &bytes.Buffer{}})
}

func testCard() core.CreditCard {
	return core.CreditCard{
		Name:              "One",
		InterestRate:      20,
		Balance:           core.Money{Cents: 100000},
		MinPayment:        core.Money{Cents: 1000},
		MinPaymentPercent: 0.10,
		AnnualFee:         core.Money{Cents: 10000},
	}
}

func testOverdraft() core.Overdraft {
	return core.Overdraft{
		Name:         "Over",
		InterestRate: 20,
		Balance:      core.Money{Cents: 100000},
		MonthlyFee:   core.Money{Cents: 900},
	}
}

func monthlyIncome(cents int64) core.Income {
	return core.Income{Name: "Salary", PayAmount: core.Money{Cents: cents}, PayType: core.Monthly}
}

// fakePublisher records recalculation requests.
type fakePublisher struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakePublisher) PublishRecalc(_ context.Context, owner, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, owner+":"+reason)
	return f.err
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeInvalidator struct {
	owners []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, owner string) {
	f.owners = append(f.owners, owner)
}

func mustCreate[T any](t *testing.T, coll storage.Collection[T], owner string, rec T) T {
	t.Helper()
	created, err := coll.Create(context.Background(), owner, rec)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return created
}
