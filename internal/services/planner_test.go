package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"debtplan/internal/cache"
	"debtplan/internal/core"
	sheetsmem "debtplan/internal/sheets/memory"
	"debtplan/internal/storage"
	"debtplan/internal/storage/memory"
)

func newPlanner(t *testing.T) (*PlannerService, *memory.Store, *sheetsmem.Exporter) {
	t.Helper()
	store := memory.NewStore()
	exporter := sheetsmem.New()
	p := NewPlannerService(store, cache.NewLRUCache[core.PayoffPlan](10, time.Minute), exporter, quietLogger())
	p.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return p, store, exporter
}

func TestPlannerTimeline(t *testing.T) {
	p, store, _ := newPlanner(t)
	ctx := context.Background()
	mustCreate(t, store.CreditCards(), "o", testCard())
	mustCreate(t, store.Incomes(), "o", monthlyIncome(20000))

	plan, err := p.Timeline(ctx, "o")
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}
	if plan.NumMonths != 7 {
		t.Fatalf("NumMonths = %d, want 7", plan.NumMonths)
	}
	if got := plan.DebtPerMonthCents()[0]; got != 92667 {
		t.Fatalf("first month = %d, want 92667", got)
	}

	// Other owners see nothing of o's records.
	other, err := p.Timeline(ctx, "someone-else")
	if err != nil || other.NumMonths != 0 || len(other.DebtPerMonth) != 0 {
		t.Fatalf("empty owner plan = %+v, %v", other, err)
	}
}

func TestPlannerTimelineUsesCacheUntilInvalidated(t *testing.T) {
	p, store, _ := newPlanner(t)
	ctx := context.Background()
	mustCreate(t, store.CreditCards(), "o", testCard())
	mustCreate(t, store.Incomes(), "o", monthlyIncome(20000))

	if _, err := p.Timeline(ctx, "o"); err != nil {
		t.Fatal(err)
	}

	// Written behind the service's back: the cached plan is still served.
	mustCreate(t, store.Expenses(), "o", core.Expense{Name: "Rent", Amount: core.Money{Cents: 18500}})
	plan, _ := p.Timeline(ctx, "o")
	if plan.NumMonths != 7 {
		t.Fatalf("cached NumMonths = %d, want 7", plan.NumMonths)
	}

	p.Invalidate(ctx, "o")
	plan, _ = p.Timeline(ctx, "o")
	if plan.NumMonths != core.NonConvergent {
		t.Fatalf("NumMonths after invalidate = %d, want %d", plan.NumMonths, core.NonConvergent)
	}
}

func TestPlannerDebtsAndBudget(t *testing.T) {
	p, store, _ := newPlanner(t)
	ctx := context.Background()
	card := mustCreate(t, store.CreditCards(), "o", testCard())
	od := mustCreate(t, store.Overdrafts(), "o", testOverdraft())
	mustCreate(t, store.Incomes(), "o", core.Income{Name: "Pay", PayAmount: core.Money{Cents: 50000}, PayType: core.SemiMonthly})
	mustCreate(t, store.Expenses(), "o", core.Expense{Name: "Food", Amount: core.Money{Cents: 2500}})

	debts, err := p.Debts(ctx, "o")
	if err != nil {
		t.Fatalf("Debts: %v", err)
	}
	if len(debts) != 2 || debts[0].(core.Overdraft).ID != od.ID || debts[1].(core.CreditCard).ID != card.ID {
		t.Fatalf("Debts() order = %+v", debts)
	}

	budget, err := p.Budget(ctx, "o")
	if err != nil {
		t.Fatalf("Budget: %v", err)
	}
	if got := budget.MoneyAfterExpenses(); got != 100000-2500-1000 {
		t.Fatalf("MoneyAfterExpenses = %v", got)
	}
}

func TestPlannerRecalculate(t *testing.T) {
	p, store, exporter := newPlanner(t)
	ctx := context.Background()
	mustCreate(t, store.CreditCards(), "o", testCard())
	mustCreate(t, store.Overdrafts(), "o", testOverdraft())
	mustCreate(t, store.Incomes(), "o", core.Income{Name: "Pay", PayAmount: core.Money{Cents: 50000}, PayType: core.SemiMonthly})

	snap, err := p.Recalculate(ctx, "o", "scheduled")
	if err != nil {
		t.Fatalf("Recalculate: %v", err)
	}
	if snap.NumMonths != 4 || snap.Budget != 99000 || snap.Reason != "scheduled" {
		t.Fatalf("snapshot = %+v", snap)
	}

	stored, err := p.LatestSnapshot(ctx, "o")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if stored.NumMonths != 4 || len(stored.DebtPerMonth) != len(snap.DebtPerMonth) {
		t.Fatalf("stored snapshot = %+v", stored)
	}

	export, ok := exporter.Latest("o")
	if !ok {
		t.Fatalf("plan was not exported")
	}
	if export.Plan.NumMonths != 4 || len(export.Debts) != 2 || !export.GeneratedAt.Equal(snap.CreatedAt) {
		t.Fatalf("export = %+v", export)
	}
}

func TestPlannerRecalculateSurvivesExportFailure(t *testing.T) {
	p, store, exporter := newPlanner(t)
	exporter.Err = errors.New("quota exceeded")
	mustCreate(t, store.CreditCards(), "o", testCard())

	snap, err := p.Recalculate(context.Background(), "o", "record-changed")
	if err != nil {
		t.Fatalf("Recalculate should ignore export failures, got %v", err)
	}
	if snap.NumMonths != core.NonConvergent {
		t.Fatalf("NumMonths = %d, want %d without income", snap.NumMonths, core.NonConvergent)
	}
}

func TestPlannerLatestSnapshotMissing(t *testing.T) {
	p, _, _ := newPlanner(t)
	if _, err := p.LatestSnapshot(context.Background(), "o"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// failingIncomes breaks one collection to check error propagation.
type failingIncomes struct {
	storage.Collection[core.Income]
}

func (failingIncomes) List(context.Context, string) ([]core.Income, error) {
	return nil, errors.New("disk on fire")
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) Incomes() storage.Collection[core.Income] { return failingIncomes{} }

func TestPlannerPropagatesStoreErrors(t *testing.T) {
	p := NewPlannerService(brokenStore{memory.NewStore()}, nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := p.Timeline(ctx, "o"); err == nil {
		t.Fatalf("expected Timeline error")
	}
	if _, err := p.Recalculate(ctx, "o", "scheduled"); err == nil {
		t.Fatalf("expected Recalculate error")
	}
	// Debts does not need incomes.
	if _, err := p.Debts(ctx, "o"); err != nil {
		t.Fatalf("Debts: %v", err)
	}
}

// pausedCards reads the stored cards and then holds the first List call
// until released, so a write can land while a plan is being computed.
type pausedCards struct {
	storage.Collection[core.CreditCard]
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (c *pausedCards) List(ctx context.Context, owner string) ([]core.CreditCard, error) {
	cards, err := c.Collection.List(ctx, owner)
	c.once.Do(func() {
		close(c.loaded)
		<-c.release
	})
	return cards, err
}

type pausedStore struct {
	*memory.Store
	cards *pausedCards
}

func (s pausedStore) CreditCards() storage.Collection[core.CreditCard] { return s.cards }

func TestPlannerDoesNotCachePlanInvalidatedMidComputation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cards := &pausedCards{
		Collection: store.CreditCards(),
		loaded:     make(chan struct{}),
		release:    make(chan struct{}),
	}
	p := NewPlannerService(pausedStore{Store: store, cards: cards},
		cache.NewLRUCache[core.PayoffPlan](10, time.Minute), nil, quietLogger())
	records := NewRecordService(store, p, nil, quietLogger())

	mustCreate(t, store.Incomes(), "o", monthlyIncome(20000))

	type result struct {
		plan core.PayoffPlan
		err  error
	}
	first := make(chan result, 1)
	go func() {
		plan, err := p.Timeline(ctx, "o")
		first <- result{plan, err}
	}()

	<-cards.loaded
	if _, err := records.CreditCards.Create(ctx, "o", testCard()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	close(cards.release)

	r := <-first
	if r.err != nil {
		t.Fatalf("first Timeline: %v", r.err)
	}
	if r.plan.NumMonths != 0 {
		t.Fatalf("first Timeline = %d months, want 0 (computed before the card)", r.plan.NumMonths)
	}

	plan, err := p.Timeline(ctx, "o")
	if err != nil {
		t.Fatalf("second Timeline: %v", err)
	}
	if plan.NumMonths != 7 {
		t.Fatalf("second Timeline = %d months, want 7", plan.NumMonths)
	}
}
