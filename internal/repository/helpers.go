package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gracechapel/ministry-api/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

// queryer picks the transaction when one is given.
func queryer(db *sqlx.DB, tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}
	return db
}

// mapError converts driver errors the services care about.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

// Transactor runs a unit of work inside a database transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return database.WithTx(ctx, t.db, fn)
}

// insertNamed runs a named INSERT ... RETURNING id.
func insertNamed(ctx context.Context, db *sqlx.DB, query string, arg any) (int64, error) {
	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return 0, mapError(err)
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

// updateNamed runs a named UPDATE and reports whether a row matched.
func updateNamed(ctx context.Context, db *sqlx.DB, query string, arg any) (bool, error) {
	res, err := db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return false, mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func removeByID(ctx context.Context, db *sqlx.DB, table string, id int64) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// getOne returns nil, nil when no row matches.
func getOne[T any](ctx context.Context, db *sqlx.DB, query string, args ...any) (*T, error) {
	var v T
	if err := db.GetContext(ctx, &v, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}
