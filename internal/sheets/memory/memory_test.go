package memory

import (
	"context"
	"errors"
	"testing"

	"debtplan/internal/core"
	ports "debtplan/internal/sheets"
)

func TestExporter(t *testing.T) {
	e := New()
	ctx := context.Background()

	ref, err := e.ExportPlan(ctx, ports.PlanExport{Owner: "a", Plan: core.PayoffPlan{NumMonths: 3}})
	if err != nil || ref != "mem:a:1" {
		t.Fatalf("ExportPlan() = %q, %v", ref, err)
	}
	e.ExportPlan(ctx, ports.PlanExport{Owner: "b"})
	e.ExportPlan(ctx, ports.PlanExport{Owner: "a", Plan: core.PayoffPlan{NumMonths: 2}})

	if got := len(e.Exports()); got != 3 {
		t.Fatalf("len(Exports()) = %d, want 3", got)
	}
	latest, ok := e.Latest("a")
	if !ok || latest.Plan.NumMonths != 2 {
		t.Fatalf("Latest(a) = %+v, %v", latest, ok)
	}
	if _, ok := e.Latest("c"); ok {
		t.Fatalf("Latest(c) should report no export")
	}

	if _, err := e.ExportPlan(ctx, ports.PlanExport{}); err == nil {
		t.Fatalf("expected error without owner")
	}

	boom := errors.New("quota exceeded")
	e.Err = boom
	if _, err := e.ExportPlan(ctx, ports.PlanExport{Owner: "a"}); !errors.Is(err, boom) {
		t.Fatalf("expected injected error, got %v", err)
	}
}
