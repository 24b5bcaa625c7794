package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"debtplan/internal/cache"
	"debtplan/internal/core"
	"debtplan/internal/log"
	"debtplan/internal/sheets"
	"debtplan/internal/storage"

	"golang.org/x/sync/errgroup"
)

// PlannerStore is the part of the repository the planner reads and writes.
type PlannerStore interface {
	storage.DebtStore
	storage.IncomeStore
	storage.ExpenseStore
	storage.PlanSnapshotStore
}

// PlannerService computes payoff plans from an owner's stored records.
type PlannerService struct {
	store    PlannerStore
	cache    cache.Store[core.PayoffPlan]
	exporter sheets.PlanExporter
	logger   *log.StructuredLogger
	now      func() time.Time
}

// NewPlannerService wires the planner. The cache and the exporter are
// optional.
func NewPlannerService(store PlannerStore, plans cache.Store[core.PayoffPlan], exporter sheets.PlanExporter, logger *log.Logger) *PlannerService {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &PlannerService{
		store:    store,
		cache:    plans,
		exporter: exporter,
		logger:   log.NewStructuredLogger(logger),
		now:      time.Now,
	}
}

// snapshot is a consistent copy of everything a plan is computed from.
type snapshot struct {
	cards      []core.CreditCard
	overdrafts []core.Overdraft
	incomes    []core.Income
	expenses   []core.Expense
}

func (s snapshot) debts() []core.DebtInstrument {
	return core.PayoffOrder(s.overdrafts, s.cards)
}

func (s snapshot) budget() core.Budget {
	return core.NewBudget(s.incomes, s.expenses, s.cards)
}

// load reads the four collections concurrently.
func (p *PlannerService) load(ctx context.Context, owner string, withBudget bool) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		cards, err := p.store.CreditCards().List(gctx, owner)
		if err != nil {
			return fmt.Errorf("list credit cards: %w", err)
		}
		snap.cards = cards
		return nil
	})
	g.Go(func() error {
		overdrafts, err := p.store.Overdrafts().List(gctx, owner)
		if err != nil {
			return fmt.Errorf("list overdrafts: %w", err)
		}
		snap.overdrafts = overdrafts
		return nil
	})
	if withBudget {
		g.Go(func() error {
			incomes, err := p.store.Incomes().List(gctx, owner)
			if err != nil {
				return fmt.Errorf("list incomes: %w", err)
			}
			snap.incomes = incomes
			return nil
		})
		g.Go(func() error {
			expenses, err := p.store.Expenses().List(gctx, owner)
			if err != nil {
				return fmt.Errorf("list expenses: %w", err)
			}
			snap.expenses = expenses
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Debts returns the owner's debts in payoff order.
func (p *PlannerService) Debts(ctx context.Context, owner string) ([]core.DebtInstrument, error) {
	snap, err := p.load(ctx, owner, false)
	if err != nil {
		return nil, err
	}
	return snap.debts(), nil
}

// Budget derives the owner's monthly budget.
func (p *PlannerService) Budget(ctx context.Context, owner string) (core.Budget, error) {
	snap, err := p.load(ctx, owner, true)
	if err != nil {
		return core.Budget{}, err
	}
	return snap.budget(), nil
}

// Timeline returns the owner's payoff plan, from the cache when possible.
func (p *PlannerService) Timeline(ctx context.Context, owner string) (core.PayoffPlan, error) {
	if p.cache != nil {
		if plan, ok := p.cache.Get(ctx, owner); ok {
			return plan, nil
		}
	}

	c, err := p.compute(ctx, owner)
	if err != nil {
		return core.PayoffPlan{}, err
	}
	return c.plan, nil
}

type computation struct {
	debts  []core.DebtInstrument
	budget float64
	plan   core.PayoffPlan
}

// compute builds the plan from a fresh load. The generation is read before
// loading so a record change that lands mid-load keeps the result out of
// the cache.
func (p *PlannerService) compute(ctx context.Context, owner string) (computation, error) {
	var gen int64
	if p.cache != nil {
		gen = p.cache.Generation(ctx, owner)
	}

	snap, err := p.load(ctx, owner, true)
	if err != nil {
		return computation{}, err
	}

	c := computation{
		debts:  snap.debts(),
		budget: snap.budget().MoneyAfterExpenses(),
	}
	c.plan = core.Aggregate(c.debts, c.budget)

	if p.cache != nil && !p.cache.SetIfGeneration(ctx, owner, c.plan, gen) {
		slog.DebugContext(ctx, "Plan inputs changed during computation, not caching", "owner", owner)
	}
	p.logger.LogPlanComputed(ctx, owner, c.plan.NumMonths, core.RoundCents(c.budget), len(c.debts))
	return c, nil
}

// Recalculate recomputes the plan, stores a snapshot and exports it. A
// failed export is logged and does not fail the recalculation.
func (p *PlannerService) Recalculate(ctx context.Context, owner, reason string) (storage.PlanSnapshot, error) {
	c, err := p.compute(ctx, owner)
	if err != nil {
		return storage.PlanSnapshot{}, err
	}

	snap := storage.PlanSnapshot{
		Owner:        owner,
		NumMonths:    c.plan.NumMonths,
		DebtPerMonth: c.plan.DebtPerMonthCents(),
		Budget:       core.RoundCents(c.budget),
		Reason:       reason,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.SaveSnapshot(ctx, snap); err != nil {
		return storage.PlanSnapshot{}, fmt.Errorf("save plan snapshot: %w", err)
	}

	if p.exporter != nil {
		ref, err := p.exporter.ExportPlan(ctx, sheets.PlanExport{
			Owner:       owner,
			GeneratedAt: snap.CreatedAt,
			Debts:       c.debts,
			Plan:        c.plan,
			Budget:      c.budget,
		})
		if err != nil {
			p.logger.LogError(ctx, "Plan export failed", err, log.ErrorTypeNetwork, log.ComponentSheets, log.OpExport,
				log.NewFields().WithRecord(owner, "plan", ""))
		} else {
			slog.DebugContext(ctx, "Plan exported", "owner", owner, "sheets_ref", ref)
		}
	}
	return snap, nil
}

// LatestSnapshot returns the most recently stored plan for the owner.
func (p *PlannerService) LatestSnapshot(ctx context.Context, owner string) (storage.PlanSnapshot, error) {
	return p.store.LatestSnapshot(ctx, owner)
}

// Invalidate drops the owner's cached plan.
func (p *PlannerService) Invalidate(ctx context.Context, owner string) {
	if p.cache != nil {
		p.cache.Delete(ctx, owner)
	}
}
