package http

import (
	"net/http"
)

// handleDebts lists the owner's debts in payoff order.
func (s *Server) handleDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.planner.Debts(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]debtResponse, 0, len(debts))
	for _, d := range debts {
		out = append(out, newDebtResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTimeline computes the payoff plan. An infeasible plan is a normal
// 200 response with num_months == -1.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	plan, err := s.planner.Timeline(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTimelineResponse(plan))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.planner.LatestSnapshot(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSnapshotResponse(snap))
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	budget, err := s.planner.Budget(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBudgetResponse(budget))
}
