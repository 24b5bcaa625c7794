package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"debtplan/internal/amqp"
	"debtplan/internal/core"
	"debtplan/internal/log"
	"debtplan/internal/storage"
)

// Publisher announces that an owner's plan needs recomputing.
type Publisher interface {
	PublishRecalc(ctx context.Context, owner, reason string) error
}

// Invalidator drops cached plans.
type Invalidator interface {
	Invalidate(ctx context.Context, owner string)
}

// Record type names used in logs and messages.
const (
	RecordCreditCard  = "credit-card"
	RecordOverdraft   = "overdraft"
	RecordIncome      = "income"
	RecordExpense     = "expense"
	RecordExpenseType = "expense-type"
	RecordInvestment  = "investment"
	RecordTaxBracket  = "tax-bracket"
)

// Validatable is implemented by every stored record type.
type Validatable interface {
	Validate() error
}

// Records is the CRUD surface of one record type. Every write validates
// the record first; writes to plan inputs invalidate the owner's cached
// plan and publish a recalculation request.
type Records[T Validatable] struct {
	name        string
	coll        storage.Collection[T]
	key         storage.Accessor[T]
	affectsPlan bool
	svc         *RecordService

	// check runs after Validate with access to the owner's other records.
	check func(ctx context.Context, owner string, rec T) error
	// beforeDelete runs once the record is known to exist.
	beforeDelete func(ctx context.Context, owner, id string) error
}

func (r *Records[T]) List(ctx context.Context, owner string) ([]T, error) {
	recs, err := r.coll.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.name, err)
	}
	return recs, nil
}

func (r *Records[T]) Get(ctx context.Context, owner, id string) (T, error) {
	rec, err := r.coll.Get(ctx, owner, id)
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", r.name, err)
	}
	return rec, nil
}

func (r *Records[T]) Create(ctx context.Context, owner string, rec T) (T, error) {
	var zero T
	if err := r.validate(ctx, owner, rec); err != nil {
		return zero, err
	}
	created, err := r.coll.Create(ctx, owner, rec)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", r.name, err)
	}
	r.changed(ctx, log.OpCreate, owner, r.key.ID(created))
	return created, nil
}

// Update replaces the stored record id with rec.
func (r *Records[T]) Update(ctx context.Context, owner, id string, rec T) (T, error) {
	var zero T
	r.key.SetID(&rec, id)
	if err := r.validate(ctx, owner, rec); err != nil {
		return zero, err
	}
	updated, err := r.coll.Update(ctx, owner, rec)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", r.name, err)
	}
	r.changed(ctx, log.OpUpdate, owner, r.key.ID(updated))
	return updated, nil
}

func (r *Records[T]) Delete(ctx context.Context, owner, id string) error {
	if r.beforeDelete != nil {
		if _, err := r.coll.Get(ctx, owner, id); err != nil {
			return fmt.Errorf("delete %s: %w", r.name, err)
		}
		if err := r.beforeDelete(ctx, owner, id); err != nil {
			return fmt.Errorf("delete %s: %w", r.name, err)
		}
	}
	if err := r.coll.Delete(ctx, owner, id); err != nil {
		return fmt.Errorf("delete %s: %w", r.name, err)
	}
	r.changed(ctx, log.OpDelete, owner, id)
	return nil
}

func (r *Records[T]) validate(ctx context.Context, owner string, rec T) error {
	if err := rec.Validate(); err != nil {
		return invalid(err)
	}
	if r.check != nil {
		return r.check(ctx, owner, rec)
	}
	return nil
}

func (r *Records[T]) changed(ctx context.Context, op, owner, id string) {
	r.svc.logger.LogRecordChanged(ctx, op, owner, r.name, id)
	if r.affectsPlan {
		r.svc.planInputsChanged(ctx, owner)
	}
}

// RecordService exposes CRUD for every record type an owner keeps.
type RecordService struct {
	CreditCards  *Records[core.CreditCard]
	Overdrafts   *Records[core.Overdraft]
	Incomes      *Records[core.Income]
	Expenses     *Records[core.Expense]
	ExpenseTypes *Records[core.ExpenseType]
	Investments  *Records[core.Investment]
	TaxBrackets  *Records[core.TaxBracket]

	invalidator Invalidator
	publisher   Publisher
	logger      *log.StructuredLogger
}

// NewRecordService wires the record collections of repo. The invalidator
// and the publisher are optional.
func NewRecordService(repo storage.Repository, invalidator Invalidator, publisher Publisher, logger *log.Logger) *RecordService {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	s := &RecordService{
		invalidator: invalidator,
		publisher:   publisher,
		logger:      log.NewStructuredLogger(logger),
	}

	s.CreditCards = &Records[core.CreditCard]{name: RecordCreditCard, coll: repo.CreditCards(), key: storage.CreditCardKey, affectsPlan: true, svc: s}
	s.Overdrafts = &Records[core.Overdraft]{name: RecordOverdraft, coll: repo.Overdrafts(), key: storage.OverdraftKey, affectsPlan: true, svc: s}
	s.Incomes = &Records[core.Income]{name: RecordIncome, coll: repo.Incomes(), key: storage.IncomeKey, affectsPlan: true, svc: s}
	s.Expenses = &Records[core.Expense]{
		name: RecordExpense, coll: repo.Expenses(), key: storage.ExpenseKey, affectsPlan: true, svc: s,
		check: func(ctx context.Context, owner string, e core.Expense) error {
			if e.TypeID == "" {
				return nil
			}
			if _, err := repo.ExpenseTypes().Get(ctx, owner, e.TypeID); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return invalid(ErrUnknownExpenseType)
				}
				return fmt.Errorf("check expense type: %w", err)
			}
			return nil
		},
	}
	s.ExpenseTypes = &Records[core.ExpenseType]{
		name: RecordExpenseType, coll: repo.ExpenseTypes(), key: storage.ExpenseTypeKey, svc: s,
		beforeDelete: func(ctx context.Context, owner, id string) error {
			return detachExpenseType(ctx, repo.Expenses(), owner, id)
		},
	}
	s.Investments = &Records[core.Investment]{name: RecordInvestment, coll: repo.Investments(), key: storage.InvestmentKey, svc: s}
	s.TaxBrackets = &Records[core.TaxBracket]{name: RecordTaxBracket, coll: repo.TaxBrackets(), key: storage.TaxBracketKey, svc: s}
	return s
}

// detachExpenseType clears the type reference of every expense using it.
func detachExpenseType(ctx context.Context, expenses storage.Collection[core.Expense], owner, typeID string) error {
	list, err := expenses.List(ctx, owner)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}
	for _, e := range list {
		if e.TypeID != typeID {
			continue
		}
		e.TypeID = ""
		if _, err := expenses.Update(ctx, owner, e); err != nil {
			return fmt.Errorf("detach expense %s: %w", e.ID, err)
		}
	}
	return nil
}

func (s *RecordService) planInputsChanged(ctx context.Context, owner string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, owner)
	}
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping recalculation message", "owner", owner)
		return
	}
	if err := s.publisher.PublishRecalc(ctx, owner, amqp.ReasonRecordChanged); err != nil {
		// The change is stored; the scheduled recalculation catches up.
		s.logger.LogError(ctx, "Failed to publish recalculation message", err, log.ErrorTypeNetwork,
			log.ComponentAMQP, log.OpRecalculate, log.NewFields().WithRecord(owner, "plan", ""))
	}
}
