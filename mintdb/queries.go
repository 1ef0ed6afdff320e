package mintdb

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type AttemptResult string

const (
	AttemptResultSucceeded        AttemptResult = "succeeded"
	AttemptResultFailed           AttemptResult = "failed"
	AttemptResultTimedOut         AttemptResult = "timed_out"
	AttemptResultSubmissionFailed AttemptResult = "submission_failed"
	AttemptResultCancelled        AttemptResult = "cancelled"
)

type MintAttempt struct {
	Seq        int64
	ID         string
	Wallet     string
	Signature  sql.NullString
	Result     AttemptResult
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

const insertAttempt = `
INSERT INTO mint_attempts (id, wallet, signature, result, message, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`

type InsertAttemptParams struct {
	ID         string
	Wallet     string
	Signature  sql.NullString
	Result     AttemptResult
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

func (q *Queries) InsertAttempt(ctx context.Context, arg InsertAttemptParams) error {
	_, err := q.db.ExecContext(ctx, insertAttempt,
		arg.ID,
		arg.Wallet,
		arg.Signature,
		arg.Result,
		arg.Message,
		arg.StartedAt,
		arg.FinishedAt,
	)
	return err
}

const selectAttempts = `
SELECT seq, id, wallet, signature, result, message, started_at, finished_at
FROM mint_attempts
WHERE ($1::text = '' OR wallet = $1::text) AND ($2::bigint = 0 OR seq < $2::bigint)
ORDER BY seq DESC
LIMIT $3
`

type SelectAttemptsParams struct {
	Wallet string
	Before int64
	Limit  int32
}

func (q *Queries) SelectAttempts(ctx context.Context, arg SelectAttemptsParams) ([]MintAttempt, error) {
	rows, err := q.db.QueryContext(ctx, selectAttempts, arg.Wallet, arg.Before, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MintAttempt
	for rows.Next() {
		var i MintAttempt
		if err := rows.Scan(
			&i.Seq,
			&i.ID,
			&i.Wallet,
			&i.Signature,
			&i.Result,
			&i.Message,
			&i.StartedAt,
			&i.FinishedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
