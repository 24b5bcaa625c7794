package http

import (
	"net/http"

	"debtplan/internal/core"
	"debtplan/internal/services"
)

// recordRequest converts a decoded body into the stored record.
type recordRequest[T any] interface {
	record() T
}

// resource serves list, create, get, update and delete for one record type
// under /api/<name>.
type resource[T services.Validatable, Req recordRequest[T]] struct {
	name    string
	records *services.Records[T]
	encode  func(T) any
}

func (res resource[T, Req]) register(mux *http.ServeMux, authed func(http.HandlerFunc) http.Handler) {
	base := "/api/" + res.name
	mux.Handle("GET "+base, authed(res.list))
	mux.Handle("POST "+base, authed(res.create))
	mux.Handle("GET "+base+"/{id}", authed(res.get))
	mux.Handle("PUT "+base+"/{id}", authed(res.update))
	mux.Handle("DELETE "+base+"/{id}", authed(res.delete))
}

func (res resource[T, Req]) list(w http.ResponseWriter, r *http.Request) {
	recs, err := res.records.List(r.Context(), ownerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, res.encode(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (res resource[T, Req]) create(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := res.records.Create(r.Context(), ownerFrom(r), req.record())
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := res.encode(created)
	if id := idOf(body); id != "" {
		w.Header().Set("Location", "/api/"+res.name+"/"+id)
	}
	writeJSON(w, http.StatusCreated, body)
}

func (res resource[T, Req]) get(w http.ResponseWriter, r *http.Request) {
	rec, err := res.records.Get(r.Context(), ownerFrom(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.encode(rec))
}

func (res resource[T, Req]) update(w http.ResponseWriter, r *http.Request) {
	var req Req
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := res.records.Update(r.Context(), ownerFrom(r), r.PathValue("id"), req.record())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.encode(updated))
}

func (res resource[T, Req]) delete(w http.ResponseWriter, r *http.Request) {
	if err := res.records.Delete(r.Context(), ownerFrom(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func idOf(body any) string {
	switch v := body.(type) {
	case debtResponse:
		return v.ID
	case incomeResponse:
		return v.ID
	case expenseResponse:
		return v.ID
	case expenseTypeResponse:
		return v.ID
	case investmentResponse:
		return v.ID
	case taxBracketResponse:
		return v.ID
	}
	return ""
}

// resourceNames lists the record collections in the order the API index
// shows them.
var resourceNames = []string{
	"credit-cards",
	"overdrafts",
	"incomes",
	"expenses",
	"types",
	"investments",
	"tax-brackets",
}

func (s *Server) registerRecords(mux *http.ServeMux) {
	recs := s.records
	resource[core.CreditCard, creditCardRequest]{name: "credit-cards", records: recs.CreditCards, encode: newCreditCardResponse}.register(mux, s.authed)
	resource[core.Overdraft, overdraftRequest]{name: "overdrafts", records: recs.Overdrafts, encode: newOverdraftResponse}.register(mux, s.authed)
	resource[core.Income, incomeRequest]{name: "incomes", records: recs.Incomes, encode: newIncomeResponse}.register(mux, s.authed)
	resource[core.Expense, expenseRequest]{name: "expenses", records: recs.Expenses, encode: newExpenseResponse}.register(mux, s.authed)
	resource[core.ExpenseType, expenseTypeRequest]{name: "types", records: recs.ExpenseTypes, encode: newExpenseTypeResponse}.register(mux, s.authed)
	resource[core.Investment, investmentRequest]{name: "investments", records: recs.Investments, encode: newInvestmentResponse}.register(mux, s.authed)
	resource[core.TaxBracket, taxBracketRequest]{name: "tax-brackets", records: recs.TaxBrackets, encode: newTaxBracketResponse}.register(mux, s.authed)
}
