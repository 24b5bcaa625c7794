package services

import (
	"context"
	"errors"
	"testing"

	"debtplan/internal/amqp"
	"debtplan/internal/core"
	"debtplan/internal/storage"
	"debtplan/internal/storage/memory"
)

func newRecords(t *testing.T) (*RecordService, *memory.Store, *fakeInvalidator, *fakePublisher) {
	t.Helper()
	store := memory.NewStore()
	inv := &fakeInvalidator{}
	pub := &fakePublisher{}
	return NewRecordService(store, inv, pub, quietLogger()), store, inv, pub
}

func TestRecordsCreateValidates(t *testing.T) {
	svc, _, inv, pub := newRecords(t)
	ctx := context.Background()

	bad := testCard()
	bad.Balance = core.Money{Cents: -1}
	_, err := svc.CreditCards.Create(ctx, "o", bad)
	if !IsValidation(err) || !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected validation error wrapping ErrInvalidAmount, got %v", err)
	}
	if pub.count() != 0 || len(inv.owners) != 0 {
		t.Fatalf("rejected records must not trigger recalculation")
	}

	card, err := svc.CreditCards.Create(ctx, "o", testCard())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if card.ID == "" {
		t.Fatalf("Create did not assign an id")
	}
	if pub.count() != 1 || pub.calls[0] != "o:"+amqp.ReasonRecordChanged {
		t.Fatalf("publisher calls = %v", pub.calls)
	}
	if len(inv.owners) != 1 || inv.owners[0] != "o" {
		t.Fatalf("invalidated = %v", inv.owners)
	}
}

func TestRecordsPublishFailureIsNotFatal(t *testing.T) {
	svc, store, _, pub := newRecords(t)
	pub.err = errors.New("broker down")

	od, err := svc.Overdrafts.Create(context.Background(), "o", testOverdraft())
	if err != nil {
		t.Fatalf("Create should succeed when publishing fails: %v", err)
	}
	if _, err := store.Overdrafts().Get(context.Background(), "o", od.ID); err != nil {
		t.Fatalf("record not stored: %v", err)
	}
}

func TestRecordsNonPlanInputsDoNotPublish(t *testing.T) {
	svc, _, inv, pub := newRecords(t)
	ctx := context.Background()

	if _, err := svc.Investments.Create(ctx, "o", core.Investment{Name: "Bonds", InterestRate: 3, Balance: core.Money{Cents: 500000}}); err != nil {
		t.Fatalf("Investments.Create: %v", err)
	}
	if _, err := svc.TaxBrackets.Create(ctx, "o", core.TaxBracket{Upper: core.Money{Cents: 5000000}, TaxRate: 15}); err != nil {
		t.Fatalf("TaxBrackets.Create: %v", err)
	}
	if _, err := svc.ExpenseTypes.Create(ctx, "o", core.ExpenseType{Name: "Home"}); err != nil {
		t.Fatalf("ExpenseTypes.Create: %v", err)
	}
	if pub.count() != 0 || len(inv.owners) != 0 {
		t.Fatalf("non plan records triggered recalculation: %v %v", pub.calls, inv.owners)
	}
}

func TestRecordsUpdateAndDelete(t *testing.T) {
	svc, _, _, pub := newRecords(t)
	ctx := context.Background()

	inc, err := svc.Incomes.Create(ctx, "o", monthlyIncome(20000))
	if err != nil {
		t.Fatal(err)
	}

	inc.PayAmount = core.Money{Cents: 30000}
	updated, err := svc.Incomes.Update(ctx, "o", inc.ID, inc)
	if err != nil || updated.PayAmount.Cents != 30000 {
		t.Fatalf("Update() = %+v, %v", updated, err)
	}

	// Another owner cannot touch it.
	if _, err := svc.Incomes.Update(ctx, "intruder", inc.ID, inc); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Incomes.Delete(ctx, "intruder", inc.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}

	if err := svc.Incomes.Delete(ctx, "o", inc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Incomes.Get(ctx, "o", inc.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if pub.count() != 3 {
		t.Fatalf("publish count = %d, want 3", pub.count())
	}

	bad := inc
	bad.PayDay = new(core.DayOfWeek)
	if _, err := svc.Incomes.Update(ctx, "o", bad.ID, bad); !IsValidation(err) {
		t.Fatalf("monthly pay with a pay day should be rejected, got %v", err)
	}
}

func TestExpenseTypeReferences(t *testing.T) {
	svc, store, _, _ := newRecords(t)
	ctx := context.Background()

	_, err := svc.Expenses.Create(ctx, "o", core.Expense{Name: "Rent", Amount: core.Money{Cents: 1000}, TypeID: "missing"})
	if !IsValidation(err) || !errors.Is(err, ErrUnknownExpenseType) {
		t.Fatalf("expected ErrUnknownExpenseType, got %v", err)
	}

	home, err := svc.ExpenseTypes.Create(ctx, "o", core.ExpenseType{Name: "Home"})
	if err != nil {
		t.Fatal(err)
	}
	// Types are per owner.
	if _, err := svc.Expenses.Create(ctx, "other", core.Expense{Name: "Rent", Amount: core.Money{Cents: 1000}, TypeID: home.ID}); !errors.Is(err, ErrUnknownExpenseType) {
		t.Fatalf("foreign type reference: expected ErrUnknownExpenseType, got %v", err)
	}

	rent, err := svc.Expenses.Create(ctx, "o", core.Expense{Name: "Rent", Amount: core.Money{Cents: 1000}, TypeID: home.ID})
	if err != nil {
		t.Fatalf("Create with valid type: %v", err)
	}
	food, _ := svc.Expenses.Create(ctx, "o", core.Expense{Name: "Food", Amount: core.Money{Cents: 500}})

	if err := svc.ExpenseTypes.Delete(ctx, "o", home.ID); err != nil {
		t.Fatalf("Delete type: %v", err)
	}
	got, _ := store.Expenses().Get(ctx, "o", rent.ID)
	if got.TypeID != "" {
		t.Fatalf("expense still references deleted type: %q", got.TypeID)
	}
	if got, _ := store.Expenses().Get(ctx, "o", food.ID); got.Name != "Food" {
		t.Fatalf("unrelated expense changed: %+v", got)
	}

	if err := svc.ExpenseTypes.Delete(ctx, "o", home.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
