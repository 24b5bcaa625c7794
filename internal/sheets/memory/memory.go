package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ports "debtplan/internal/sheets"
)

// Exporter keeps every export in memory. It stands in for the spreadsheet
// in tests and when no Google credentials are configured.
type Exporter struct {
	mu      sync.Mutex
	exports []ports.PlanExport
	// Err, when set, is returned by every ExportPlan call.
	Err error
}

var _ ports.PlanExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// ExportPlan stores the export and returns a synthetic reference.
func (e *Exporter) ExportPlan(_ context.Context, export ports.PlanExport) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.Err != nil {
		return "", e.Err
	}
	if export.Owner == "" {
		return "", errors.New("export without owner")
	}
	e.exports = append(e.exports, export)
	return fmt.Sprintf("mem:%s:%d", export.Owner, len(e.exports)), nil
}

// Exports returns a copy of everything exported so far.
func (e *Exporter) Exports() []ports.PlanExport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.PlanExport(nil), e.exports...)
}

// Latest returns the most recent export for owner.
func (e *Exporter) Latest(owner string) (ports.PlanExport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.exports) - 1; i >= 0; i-- {
		if e.exports[i].Owner == owner {
			return e.exports[i], true
		}
	}
	return ports.PlanExport{}, false
}
