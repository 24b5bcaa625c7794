// Package memory is an in-process storage backend. It is the default when no
// database is configured and the test double for the layers above storage.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"debtplan/internal/core"
	"debtplan/internal/storage"
)

// Store keeps every record in mutex-guarded maps. The zero value is not
// usable; call NewStore.
type Store struct {
	mu sync.RWMutex

	users     map[string]core.User
	usernames map[string]string
	order     []string
	snapshots map[string]storage.PlanSnapshot

	creditCards  *collection[core.CreditCard]
	overdrafts   *collection[core.Overdraft]
	incomes      *collection[core.Income]
	expenses     *collection[core.Expense]
	expenseTypes *collection[core.ExpenseType]
	investments  *collection[core.Investment]
	taxBrackets  *collection[core.TaxBracket]
}

var _ storage.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:        make(map[string]core.User),
		usernames:    make(map[string]string),
		snapshots:    make(map[string]storage.PlanSnapshot),
		creditCards:  newCollection(storage.CreditCardKey),
		overdrafts:   newCollection(storage.OverdraftKey),
		incomes:      newCollection(storage.IncomeKey),
		expenses:     newCollection(storage.ExpenseKey),
		expenseTypes: newCollection(storage.ExpenseTypeKey),
		investments:  newCollection(storage.InvestmentKey),
		taxBrackets:  newCollection(storage.TaxBracketKey),
	}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func (s *Store) CreditCards() storage.Collection[core.CreditCard]   { return s.creditCards }
func (s *Store) Overdrafts() storage.Collection[core.Overdraft]     { return s.overdrafts }
func (s *Store) Incomes() storage.Collection[core.Income]           { return s.incomes }
func (s *Store) Expenses() storage.Collection[core.Expense]         { return s.expenses }
func (s *Store) ExpenseTypes() storage.Collection[core.ExpenseType] { return s.expenseTypes }
func (s *Store) Investments() storage.Collection[core.Investment]   { return s.investments }
func (s *Store) TaxBrackets() storage.Collection[core.TaxBracket]   { return s.taxBrackets }

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.usernames[u.Username]; taken {
		return core.User{}, storage.ErrConflict
	}
	u.ID = storage.NewID()
	s.users[u.ID] = u
	s.usernames[u.Username] = u.ID
	s.order = append(s.order, u.ID)
	return u, nil
}

func (s *Store) UserByID(_ context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListOwners(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

func (s *Store) SaveSnapshot(_ context.Context, snap storage.PlanSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	snap.DebtPerMonth = slices.Clone(snap.DebtPerMonth)
	if snap.DebtPerMonth == nil {
		snap.DebtPerMonth = []int64{}
	}
	s.snapshots[snap.Owner] = snap
	return nil
}

func (s *Store) LatestSnapshot(_ context.Context, owner string) (storage.PlanSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[owner]
	if !ok {
		return storage.PlanSnapshot{}, storage.ErrNotFound
	}
	snap.DebtPerMonth = slices.Clone(snap.DebtPerMonth)
	return snap, nil
}

// collection stores one record type per owner in insertion order.
type collection[T any] struct {
	mu      sync.RWMutex
	key     storage.Accessor[T]
	byOwner map[string][]T
}

func newCollection[T any](key storage.Accessor[T]) *collection[T] {
	return &collection[T]{key: key, byOwner: make(map[string][]T)}
}

func (c *collection[T]) List(_ context.Context, owner string) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.byOwner[owner]), nil
}

func (c *collection[T]) Get(_ context.Context, owner, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.index(owner, id); i >= 0 {
		return c.byOwner[owner][i], nil
	}
	var zero T
	return zero, storage.ErrNotFound
}

func (c *collection[T]) Create(_ context.Context, owner string, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key.SetID(&rec, storage.NewID())
	c.byOwner[owner] = append(c.byOwner[owner], rec)
	return rec, nil
}

func (c *collection[T]) Update(_ context.Context, owner string, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(owner, c.key.ID(rec))
	if i < 0 {
		return rec, storage.ErrNotFound
	}
	c.byOwner[owner][i] = rec
	return rec, nil
}

func (c *collection[T]) Delete(_ context.Context, owner, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.index(owner, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	c.byOwner[owner] = slices.Delete(c.byOwner[owner], i, i+1)
	return nil
}

// index must be called with the lock held.
func (c *collection[T]) index(owner, id string) int {
	return slices.IndexFunc(c.byOwner[owner], func(rec T) bool { return c.key.ID(rec) == id })
}
