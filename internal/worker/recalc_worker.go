package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"debtplan/internal/amqp"
	"debtplan/internal/storage"

	"github.com/robfig/cron/v3"
)

// Recalculator recomputes and stores one owner's plan.
type Recalculator interface {
	Recalculate(ctx context.Context, owner, reason string) (storage.PlanSnapshot, error)
}

// OwnerLister enumerates every owner with records.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
}

// RecalcWorker recomputes payoff plans on request from the queue and on a
// schedule.
type RecalcWorker struct {
	planner Recalculator
	owners  OwnerLister

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRecalcWorker(planner Recalculator, owners OwnerLister) *RecalcWorker {
	return &RecalcWorker{
		planner: planner,
		owners:  owners,
	}
}

// HandleRecalcMessage processes a single recalculation message from AMQP.
// An error makes the consumer requeue the message.
func (w *RecalcWorker) HandleRecalcMessage(ctx context.Context, msg *amqp.PlanRecalcMessage) error {
	slog.InfoContext(ctx, "Processing recalculation message",
		"owner", msg.Owner,
		"reason", msg.Reason,
		"queued_at", msg.Timestamp)

	snap, err := w.planner.Recalculate(ctx, msg.Owner, msg.Reason)
	if err != nil {
		return fmt.Errorf("recalculate plan for %s: %w", msg.Owner, err)
	}

	slog.InfoContext(ctx, "Plan recalculated",
		"owner", msg.Owner,
		"num_months", snap.NumMonths,
		"latency", time.Since(msg.Timestamp).Round(time.Millisecond))
	return nil
}

// RecalcResult counts the outcome of a bulk recalculation.
type RecalcResult struct {
	Total      int
	Succeeded  int
	Infeasible int
	Failed     int
}

// RecalculateAll recomputes the plan of every owner. A failing owner is
// logged and skipped; only a failure to list owners or a cancelled context
// is returned.
func (w *RecalcWorker) RecalculateAll(ctx context.Context, reason string) (RecalcResult, error) {
	owners, err := w.owners.ListOwners(ctx)
	if err != nil {
		return RecalcResult{}, fmt.Errorf("list owners: %w", err)
	}

	res := RecalcResult{Total: len(owners)}
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		snap, err := w.planner.Recalculate(ctx, owner, reason)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return res, err
			}
			slog.ErrorContext(ctx, "Failed to recalculate plan", "owner", owner, "error", err)
			res.Failed++
			continue
		}
		res.Succeeded++
		if snap.NumMonths < 0 {
			res.Infeasible++
			slog.WarnContext(ctx, "Plan cannot be paid off with the current budget",
				"owner", owner,
				"budget_cents", snap.Budget)
		}
	}

	slog.InfoContext(ctx, "Bulk recalculation completed",
		"reason", reason,
		"total", res.Total,
		"succeeded", res.Succeeded,
		"infeasible", res.Infeasible,
		"failed", res.Failed)
	return res, nil
}

// StartSchedule runs RecalculateAll on the given cron schedule until ctx is
// done or Stop is called. An empty schedule disables it.
func (w *RecalcWorker) StartSchedule(ctx context.Context, schedule string) error {
	if schedule == "" {
		slog.InfoContext(ctx, "Scheduled recalculation disabled")
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cron != nil {
		return errors.New("schedule already started")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if _, err := w.RecalculateAll(ctx, amqp.ReasonScheduled); err != nil {
			slog.ErrorContext(ctx, "Scheduled recalculation failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	w.cron = c
	slog.InfoContext(ctx, "Scheduled recalculation started", "schedule", schedule)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running recalculation to finish.
func (w *RecalcWorker) Stop() {
	w.mu.Lock()
	c := w.cron
	w.cron = nil
	w.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}
