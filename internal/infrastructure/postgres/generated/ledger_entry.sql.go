package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerEntry = `-- name: CreateLedgerEntry :one
INSERT INTO ledger_entries (id, account_id, plan, amount, credits, settled, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, $6)
RETURNING id, account_id, plan, amount, credits, settled, settled_at, created_at
`

type CreateLedgerEntryParams struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Plan      string             `json:"plan"`
	Amount    pgtype.Numeric     `json:"amount"`
	Credits   int64              `json:"credits"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, createLedgerEntry,
		arg.ID,
		arg.AccountID,
		arg.Plan,
		arg.Amount,
		arg.Credits,
		arg.CreatedAt,
	)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Plan,
		&i.Amount,
		&i.Credits,
		&i.Settled,
		&i.SettledAt,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerEntryByID = `-- name: GetLedgerEntryByID :one
SELECT id, account_id, plan, amount, credits, settled, settled_at, created_at FROM ledger_entries WHERE id = $1
`

func (q *Queries) GetLedgerEntryByID(ctx context.Context, id string) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, getLedgerEntryByID, id)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Plan,
		&i.Amount,
		&i.Credits,
		&i.Settled,
		&i.SettledAt,
		&i.CreatedAt,
	)
	return i, err
}

const listLedgerEntriesByAccount = `-- name: ListLedgerEntriesByAccount :many
SELECT id, account_id, plan, amount, credits, settled, settled_at, created_at FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListLedgerEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListLedgerEntriesByAccount(ctx context.Context, arg ListLedgerEntriesByAccountParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, listLedgerEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntry{}
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Plan,
			&i.Amount,
			&i.Credits,
			&i.Settled,
			&i.SettledAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const settleLedgerEntry = `-- name: SettleLedgerEntry :one
UPDATE ledger_entries
SET settled = TRUE, settled_at = $2
WHERE id = $1 AND settled = FALSE
RETURNING id, account_id, plan, amount, credits, settled, settled_at, created_at
`

type SettleLedgerEntryParams struct {
	ID        string             `json:"id"`
	SettledAt pgtype.Timestamptz `json:"settled_at"`
}

func (q *Queries) SettleLedgerEntry(ctx context.Context, arg SettleLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, settleLedgerEntry, arg.ID, arg.SettledAt)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Plan,
		&i.Amount,
		&i.Credits,
		&i.Settled,
		&i.SettledAt,
		&i.CreatedAt,
	)
	return i, err
}

const sumSettledCredits = `-- name: SumSettledCredits :one
SELECT COALESCE(SUM(credits), 0)::BIGINT FROM ledger_entries WHERE account_id = $1 AND settled
`

func (q *Queries) SumSettledCredits(ctx context.Context, accountID string) (int64, error) {
	row := q.db.QueryRow(ctx, sumSettledCredits, accountID)
	var column_1 int64
	err := row.Scan(&column_1)
	return column_1, err
}
