// Package storage persists the records a user owns and the plan snapshots
// computed from them. Every record is scoped by (owner, id); ids are UUIDv4
// strings assigned on create.
package storage

import (
	"context"
	"errors"
	"time"

	"debtplan/internal/core"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type (
	// Collection is the CRUD surface shared by every owned record type.
	// Update and Delete report ErrNotFound when the owner has no record
	// with the given id.
	Collection[T any] interface {
		List(ctx context.Context, owner string) ([]T, error)
		Get(ctx context.Context, owner, id string) (T, error)
		Create(ctx context.Context, owner string, rec T) (T, error)
		Update(ctx context.Context, owner string, rec T) (T, error)
		Delete(ctx context.Context, owner, id string) error
	}

	DebtStore interface {
		CreditCards() Collection[core.CreditCard]
		Overdrafts() Collection[core.Overdraft]
	}

	IncomeStore interface {
		Incomes() Collection[core.Income]
	}

	ExpenseStore interface {
		Expenses() Collection[core.Expense]
	}

	ExpenseTypeStore interface {
		ExpenseTypes() Collection[core.ExpenseType]
	}

	InvestmentStore interface {
		Investments() Collection[core.Investment]
	}

	TaxBracketStore interface {
		TaxBrackets() Collection[core.TaxBracket]
	}

	UserStore interface {
		// CreateUser assigns an id and returns ErrConflict for a taken username.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UserByID(ctx context.Context, id string) (core.User, error)
		UserByUsername(ctx context.Context, username string) (core.User, error)
		// ListOwners returns the id of every user, for scheduled recalculation.
		ListOwners(ctx context.Context) ([]string, error)
	}

	PlanSnapshotStore interface {
		SaveSnapshot(ctx context.Context, s PlanSnapshot) error
		LatestSnapshot(ctx context.Context, owner string) (PlanSnapshot, error)
	}

	Repository interface {
		DebtStore
		IncomeStore
		ExpenseStore
		ExpenseTypeStore
		InvestmentStore
		TaxBracketStore
		UserStore
		PlanSnapshotStore
		Ping(ctx context.Context) error
		Close() error
	}
)

// PlanSnapshot is a computed payoff plan stored for later retrieval.
type PlanSnapshot struct {
	Owner        string
	NumMonths    int
	DebtPerMonth []int64
	// Budget is the money left after expenses when the plan was computed, in cents.
	Budget    int64
	Reason    string
	CreatedAt time.Time
}

// Accessor reads and assigns the identifier of a record type so that the
// backends can store every collection the same way.
type Accessor[T any] struct {
	ID    func(T) string
	SetID func(*T, string)
}

var (
	CreditCardKey = Accessor[core.CreditCard]{
		ID:    func(c core.CreditCard) string { return c.ID },
		SetID: func(c *core.CreditCard, id string) { c.ID = id },
	}
	OverdraftKey = Accessor[core.Overdraft]{
		ID:    func(o core.Overdraft) string { return o.ID },
		SetID: func(o *core.Overdraft, id string) { o.ID = id },
	}
	IncomeKey = Accessor[core.Income]{
		ID:    func(i core.Income) string { return i.ID },
		SetID: func(i *core.Income, id string) { i.ID = id },
	}
	ExpenseKey = Accessor[core.Expense]{
		ID:    func(e core.Expense) string { return e.ID },
		SetID: func(e *core.Expense, id string) { e.ID = id },
	}
	ExpenseTypeKey = Accessor[core.ExpenseType]{
		ID:    func(t core.ExpenseType) string { return t.ID },
		SetID: func(t *core.ExpenseType, id string) { t.ID = id },
	}
	InvestmentKey = Accessor[core.Investment]{
		ID:    func(i core.Investment) string { return i.ID },
		SetID: func(i *core.Investment, id string) { i.ID = id },
	}
	TaxBracketKey = Accessor[core.TaxBracket]{
		ID:    func(t core.TaxBracket) string { return t.ID },
		SetID: func(t *core.TaxBracket, id string) { t.ID = id },
	}
)

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.New().String()
}
