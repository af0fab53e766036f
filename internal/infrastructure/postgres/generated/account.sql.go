package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const addAccountCredits = `-- name: AddAccountCredits :one
UPDATE accounts
SET credit_balance = credit_balance + $2, updated_at = $3
WHERE id = $1
RETURNING credit_balance
`

type AddAccountCreditsParams struct {
	ID        string             `json:"id"`
	Credits   int64              `json:"credits"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) AddAccountCredits(ctx context.Context, arg AddAccountCreditsParams) (int64, error) {
	row := q.db.QueryRow(ctx, addAccountCredits, arg.ID, arg.Credits, arg.UpdatedAt)
	var credit_balance int64
	err := row.Scan(&credit_balance)
	return credit_balance, err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (id, email, name, password_hash, credit_balance, created_at, updated_at, role, role)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, email, name, password_hash, credit_balance, created_at, updated_at, role
`

type CreateAccountParams struct {
	ID            string             `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	PasswordHash  string             `json:"password_hash"`
	CreditBalance int64              `json:"credit_balance"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	Role          string             `json:"role"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.PasswordHash,
		arg.CreditBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.Role,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.CreditBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Role,
	)
	return i, err
}

const getAccountByEmail = `-- name: GetAccountByEmail :one
SELECT id, email, name, password_hash, credit_balance, created_at, updated_at, role FROM accounts WHERE email = $1
`

func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByEmail, email)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.CreditBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Role,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, email, name, password_hash, credit_balance, created_at, updated_at, role FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.CreditBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Role,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT id, email, name, password_hash, credit_balance, created_at, updated_at, role FROM accounts ORDER BY id LIMIT $1 OFFSET $2
`

type ListAccountsParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccounts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Email,
			&i.Name,
			&i.PasswordHash,
			&i.CreditBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.Role,
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

const setAccountRole = `-- name: SetAccountRole :one
UPDATE accounts
SET role = $2, updated_at = $3
WHERE email = $1
RETURNING id, email, name, password_hash, credit_balance, created_at, updated_at, role
`

type SetAccountRoleParams struct {
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetAccountRole(ctx context.Context, arg SetAccountRoleParams) (Account, error) {
	row := q.db.QueryRow(ctx, setAccountRole, arg.Email, arg.Role, arg.UpdatedAt)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.CreditBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.Role,
	)
	return i, err
}
