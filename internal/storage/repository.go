package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"debtplan/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB

	creditCards  *table[core.CreditCard]
	overdrafts   *table[core.Overdraft]
	incomes      *table[core.Income]
	expenses     *table[core.Expense]
	expenseTypes *table[core.ExpenseType]
	investments  *table[core.Investment]
	taxBrackets  *table[core.TaxBracket]
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return newSQLiteRepository(db), nil
}

func newSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db: db,
		creditCards: &table[core.CreditCard]{
			db:      db,
			name:    "credit_cards",
			columns: []string{"name", "interest_rate", "balance_cents", "min_payment_cents", "min_payment_percent", "annual_fee_cents"},
			key:     CreditCardKey,
			values: func(c core.CreditCard) []any {
				return []any{c.Name, c.InterestRate, c.Balance.Cents, c.MinPayment.Cents, c.MinPaymentPercent, c.AnnualFee.Cents}
			},
			scan: func(s scanner) (core.CreditCard, error) {
				var c core.CreditCard
				err := s.Scan(&c.ID, &c.Name, &c.InterestRate, &c.Balance.Cents, &c.MinPayment.Cents, &c.MinPaymentPercent, &c.AnnualFee.Cents)
				return c, err
			},
		},
		overdrafts: &table[core.Overdraft]{
			db:      db,
			name:    "overdrafts",
			columns: []string{"name", "interest_rate", "balance_cents", "monthly_fee_cents"},
			key:     OverdraftKey,
			values: func(o core.Overdraft) []any {
				return []any{o.Name, o.InterestRate, o.Balance.Cents, o.MonthlyFee.Cents}
			},
			scan: func(s scanner) (core.Overdraft, error) {
				var o core.Overdraft
				err := s.Scan(&o.ID, &o.Name, &o.InterestRate, &o.Balance.Cents, &o.MonthlyFee.Cents)
				return o, err
			},
		},
		incomes: &table[core.Income]{
			db:      db,
			name:    "incomes",
			columns: []string{"name", "pay_amount_cents", "pay_type", "pay_day"},
			key:     IncomeKey,
			values: func(i core.Income) []any {
				var day sql.NullInt64
				if i.PayDay != nil {
					day = sql.NullInt64{Int64: int64(*i.PayDay), Valid: true}
				}
				return []any{i.Name, i.PayAmount.Cents, int64(i.PayType), day}
			},
			scan: func(s scanner) (core.Income, error) {
				var (
					i       core.Income
					payType int64
					day     sql.NullInt64
				)
				err := s.Scan(&i.ID, &i.Name, &i.PayAmount.Cents, &payType, &day)
				i.PayType = core.PayType(payType)
				if day.Valid {
					d := core.DayOfWeek(day.Int64)
					i.PayDay = &d
				}
				return i, err
			},
		},
		expenses: &table[core.Expense]{
			db:      db,
			name:    "expenses",
			columns: []string{"name", "amount_cents", "frequency", "type_id"},
			key:     ExpenseKey,
			values: func(e core.Expense) []any {
				return []any{e.Name, e.Amount.Cents, e.Frequency, e.TypeID}
			},
			scan: func(s scanner) (core.Expense, error) {
				var e core.Expense
				err := s.Scan(&e.ID, &e.Name, &e.Amount.Cents, &e.Frequency, &e.TypeID)
				return e, err
			},
		},
		expenseTypes: &table[core.ExpenseType]{
			db:      db,
			name:    "expense_types",
			columns: []string{"name"},
			key:     ExpenseTypeKey,
			values:  func(t core.ExpenseType) []any { return []any{t.Name} },
			scan: func(s scanner) (core.ExpenseType, error) {
				var t core.ExpenseType
				err := s.Scan(&t.ID, &t.Name)
				return t, err
			},
		},
		investments: &table[core.Investment]{
			db:      db,
			name:    "investments",
			columns: []string{"name", "interest_rate", "min_duration", "balance_cents"},
			key:     InvestmentKey,
			values: func(i core.Investment) []any {
				return []any{i.Name, i.InterestRate, i.MinDuration, i.Balance.Cents}
			},
			scan: func(s scanner) (core.Investment, error) {
				var i core.Investment
				err := s.Scan(&i.ID, &i.Name, &i.InterestRate, &i.MinDuration, &i.Balance.Cents)
				return i, err
			},
		},
		taxBrackets: &table[core.TaxBracket]{
			db:      db,
			name:    "tax_brackets",
			columns: []string{"lower_cents", "upper_cents", "tax_rate", "grp"},
			key:     TaxBracketKey,
			values: func(t core.TaxBracket) []any {
				return []any{t.Lower.Cents, t.Upper.Cents, t.TaxRate, t.Group}
			},
			scan: func(s scanner) (core.TaxBracket, error) {
				var t core.TaxBracket
				err := s.Scan(&t.ID, &t.Lower.Cents, &t.Upper.Cents, &t.TaxRate, &t.Group)
				return t, err
			},
		},
	}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreditCards() Collection[core.CreditCard]   { return r.creditCards }
func (r *SQLiteRepository) Overdrafts() Collection[core.Overdraft]     { return r.overdrafts }
func (r *SQLiteRepository) Incomes() Collection[core.Income]           { return r.incomes }
func (r *SQLiteRepository) Expenses() Collection[core.Expense]         { return r.expenses }
func (r *SQLiteRepository) ExpenseTypes() Collection[core.ExpenseType] { return r.expenseTypes }
func (r *SQLiteRepository) Investments() Collection[core.Investment]   { return r.investments }
func (r *SQLiteRepository) TaxBrackets() Collection[core.TaxBracket]   { return r.taxBrackets }

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	u.ID = NewID()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, ?)",
		u.ID, u.Username, u.Email, u.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.User{}, ErrConflict
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite", "id", u.ID, "username", u.Username)
	return u, nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id string) (core.User, error) {
	return r.queryUser(ctx, "id", id)
}

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.queryUser(ctx, "username", username)
}

func (r *SQLiteRepository) queryUser(ctx context.Context, column, value string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash FROM users WHERE "+column+" = ?", value,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, nil
}

func (r *SQLiteRepository) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM users ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, s PlanSnapshot) error {
	trajectory := s.DebtPerMonth
	if trajectory == nil {
		trajectory = []int64{}
	}
	encoded, err := json.Marshal(trajectory)
	if err != nil {
		return fmt.Errorf("encode trajectory: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO plan_snapshots (owner, num_months, debt_per_month, budget_cents, reason, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		s.Owner, s.NumMonths, string(encoded), s.Budget, s.Reason, s.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save plan snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Plan snapshot saved", "owner", s.Owner, "num_months", s.NumMonths)
	return nil
}

func (r *SQLiteRepository) LatestSnapshot(ctx context.Context, owner string) (PlanSnapshot, error) {
	var (
		s       = PlanSnapshot{Owner: owner}
		encoded string
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT num_months, debt_per_month, budget_cents, reason, created_at FROM plan_snapshots WHERE owner = ? ORDER BY id DESC LIMIT 1",
		owner,
	).Scan(&s.NumMonths, &encoded, &s.Budget, &s.Reason, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PlanSnapshot{}, ErrNotFound
	}
	if err != nil {
		return PlanSnapshot{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(encoded), &s.DebtPerMonth); err != nil {
		return PlanSnapshot{}, fmt.Errorf("decode trajectory: %w", err)
	}
	return s, nil
}
