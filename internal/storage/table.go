package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type scanner interface {
	Scan(dest ...any) error
}

// table maps one record type onto an owner-scoped SQL table. columns lists
// the data columns in the order values and scan use them; id and owner are
// handled by the table itself.
type table[T any] struct {
	db      *sql.DB
	name    string
	columns []string
	key     Accessor[T]
	values  func(T) []any
	// scan reads id followed by columns.
	scan func(scanner) (T, error)
}

var _ Collection[struct{}] = (*table[struct{}])(nil)

func (t *table[T]) selectSQL() string {
	return fmt.Sprintf("SELECT id, %s FROM %s WHERE owner = ?", strings.Join(t.columns, ", "), t.name)
}

func (t *table[T]) List(ctx context.Context, owner string) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.selectSQL()+" ORDER BY created_at, rowid", owner)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, owner, id string) (T, error) {
	rec, err := t.scan(t.db.QueryRowContext(ctx, t.selectSQL()+" AND id = ?", owner, id))
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get %s %s: %w", t.name, id, err)
	}
	return rec, nil
}

func (t *table[T]) Create(ctx context.Context, owner string, rec T) (T, error) {
	t.key.SetID(&rec, NewID())

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)+2), ", ")
	query := fmt.Sprintf("INSERT INTO %s (id, owner, %s) VALUES (%s)",
		t.name, strings.Join(t.columns, ", "), placeholders)

	args := append([]any{t.key.ID(rec), owner}, t.values(rec)...)
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return rec, fmt.Errorf("create %s: %w", t.name, err)
	}

	slog.DebugContext(ctx, "Record created", "table", t.name, "id", t.key.ID(rec), "owner", owner)
	return rec, nil
}

func (t *table[T]) Update(ctx context.Context, owner string, rec T) (T, error) {
	sets := make([]string, len(t.columns))
	for i, c := range t.columns {
		sets[i] = c + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE owner = ? AND id = ?", t.name, strings.Join(sets, ", "))

	args := append(t.values(rec), owner, t.key.ID(rec))
	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return rec, fmt.Errorf("update %s: %w", t.name, err)
	}
	if err := requireAffected(res); err != nil {
		return rec, err
	}
	return rec, nil
}

func (t *table[T]) Delete(ctx context.Context, owner, id string) error {
	res, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE owner = ? AND id = ?", t.name), owner, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
