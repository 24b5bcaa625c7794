package sheets

import (
	"context"
	"time"

	"debtplan/internal/core"
)

// PlanExport is everything written for one owner's payoff plan.
type PlanExport struct {
	Owner       string
	GeneratedAt time.Time
	// Debts in payoff order.
	Debts  []core.DebtInstrument
	Plan   core.PayoffPlan
	Budget float64
}

// Ports for outbound adapters.
type (
	// PlanExporter publishes a computed plan to a spreadsheet and returns a
	// reference to the written range.
	PlanExporter interface {
		ExportPlan(ctx context.Context, export PlanExport) (ref string, err error)
	}
)
