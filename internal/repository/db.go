package repository

import (
	"context"
	"database/sql"
	"encoding/json"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxRunner runs a function inside a database transaction.
type TxRunner struct{ DB *sql.DB }

func NewTxRunner(db *sql.DB) *TxRunner { return &TxRunner{DB: db} }

// InTx begins a transaction, calls fn and commits when fn succeeds. Any
// error from fn, or a panic, rolls the transaction back.
func (r *TxRunner) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func insertID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func nullableID(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}

func idPtr(n sql.NullInt64) *uint64 {
	if !n.Valid {
		return nil
	}
	v := uint64(n.Int64)
	return &v
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func nullableStr(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// encodeList stores string slices in JSON columns. Empty lists become NULL.
func encodeList(v []string) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func decodeList(n sql.NullString) ([]string, error) {
	if !n.Valid || n.String == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(n.String), &out); err != nil {
		return nil, err
	}
	return out, nil
}
