package mintdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/common"
)

//go:embed schema.sql
var schemaSql string

var creations = regexp.MustCompile(`CREATE[^;]+;`).FindAllString(schemaSql, -1)

// creationSql finds the statement creating the table or index with the name.
func creationSql(name string) string {
	hits := make([]string, 0, 1)
	for _, c := range creations {
		if strings.Contains(c, "EXISTS "+name+" ") {
			hits = append(hits, c)
		}
	}
	if len(hits) != 1 {
		panic(fmt.Sprintf("expect exactly one hit for %s, got %d: %v", name, len(hits), hits))
	}
	return hits[0]
}

const (
	dropMintAttemptsTable = `
DROP TABLE IF EXISTS mint_attempts
`
	dropAttemptResultType = `
DROP TYPE IF EXISTS attempt_result
`
)

var (
	createMintAttemptsTable = `
DO $$
BEGIN
       IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'attempt_result') THEN
               CREATE TYPE attempt_result AS ENUM ('succeeded', 'failed', 'timed_out', 'submission_failed', 'cancelled');
       END IF;
END$$;

` + creationSql("mint_attempts")
	createMintAttemptsWalletIndex = creationSql("mint_attempts_wallet_idx")
)

var dropSchemas = []struct {
	query       string
	description string
}{
	{dropMintAttemptsTable, "drop mint attempts table"},
	{dropAttemptResultType, "drop attempt_result type"},
}

var createSchemas = []struct {
	query       string
	description string
}{
	{createMintAttemptsTable, "create mint attempts table"},
	{createMintAttemptsWalletIndex, "create mint attempts wallet index"},
}

// MaxPageSize limits the number of attempts returned by one Attempts call.
const MaxPageSize = 100

func handleErrorWithRollback(err error, tx *sql.Tx) error {
	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		return rollbackErr
	}
	return err
}

func resultToSql(r common.AttemptResult) (AttemptResult, error) {
	switch r {
	case common.AttemptSucceeded:
		return AttemptResultSucceeded, nil
	case common.AttemptFailed:
		return AttemptResultFailed, nil
	case common.AttemptTimedOut:
		return AttemptResultTimedOut, nil
	case common.AttemptSubmissionFailed:
		return AttemptResultSubmissionFailed, nil
	case common.AttemptCancelled:
		return AttemptResultCancelled, nil
	default:
		return "", fmt.Errorf("unknown attempt result %q", r)
	}
}

func attemptFromSql(a MintAttempt) common.MintAttempt {
	return common.MintAttempt{
		ID:         a.ID,
		Wallet:     a.Wallet,
		Signature:  a.Signature.String,
		Result:     common.AttemptResult(a.Result),
		Message:    a.Message,
		StartedAt:  a.StartedAt.UTC(),
		FinishedAt: a.FinishedAt.UTC(),
	}
}

// MintDB is the journal of mint attempts.
type MintDB struct {
	db  *sql.DB
	log *logrus.Entry
}

func NewDB(db *sql.DB) (*MintDB, error) {
	mdb := &MintDB{
		db:  db,
		log: logrus.StandardLogger().WithField("type", "mintdb"),
	}
	if err := mdb.CreateSchemas(); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}
	return mdb, nil
}

func (mdb *MintDB) trace(method string) func() {
	log := mdb.log.WithFields(logrus.Fields{
		"method": method,
		"lid":    uuid.NewString(),
	})
	log.Debug("started")
	return func() {
		log.Debug("exited")
	}
}

func (mdb *MintDB) CreateSchemas() error {
	defer mdb.trace("CreateSchemas")()
	tx, err := mdb.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, s := range createSchemas {
		if _, err := tx.Exec(s.query); err != nil {
			return handleErrorWithRollback(fmt.Errorf("failed to %s: %w", s.description, err), tx)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (mdb *MintDB) DropSchemas(cascade bool) error {
	defer mdb.trace("DropSchemas")()
	tx, err := mdb.db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	suffix := ""
	if cascade {
		suffix = " CASCADE"
	}
	for _, s := range dropSchemas {
		query := s.query + suffix
		if _, err := tx.Exec(query); err != nil {
			return handleErrorWithRollback(fmt.Errorf("failed to %s: %w", s.description, err), tx)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (mdb *MintDB) createDBObjects(ctx context.Context) (*sql.Tx, *Queries, error) {
	tx, err := mdb.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return tx, New(mdb.db).WithTx(tx), nil
}

type mdbMethod func(ctx context.Context, q *Queries) error

type txCommitError struct {
	msg string
}

func (txErr txCommitError) Error() string {
	return txErr.msg
}

func (mdb *MintDB) runRetryableTransaction(ctx context.Context, fn mdbMethod) error {
	return retry.Do(
		func() error {
			tx, q, err := mdb.createDBObjects(ctx)
			if err != nil {
				return fmt.Errorf("failed to create db objects: %w", err)
			}
			if err := fn(ctx, q); err != nil {
				return handleErrorWithRollback(err, tx)
			}
			if err := tx.Commit(); err != nil {
				return txCommitError{msg: err.Error()}
			}
			return nil
		},
		retry.Context(ctx),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if errors.As(err, &txCommitError{}) {
				return true
			}
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return true
			}
			return false
		}),
	)
}

// AddAttempt stores a finished attempt. Adding an attempt with an existing
// ID is a no-op.
func (mdb *MintDB) AddAttempt(ctx context.Context, attempt *common.MintAttempt) error {
	defer mdb.trace("AddAttempt")()
	if _, err := uuid.Parse(attempt.ID); err != nil {
		return fmt.Errorf("bad attempt id %q: %w", attempt.ID, err)
	}
	result, err := resultToSql(attempt.Result)
	if err != nil {
		return err
	}
	return mdb.runRetryableTransaction(ctx, func(innerCtx context.Context, q *Queries) error {
		if err := q.InsertAttempt(innerCtx, InsertAttemptParams{
			ID:         attempt.ID,
			Wallet:     attempt.Wallet,
			Signature:  sql.NullString{String: attempt.Signature, Valid: attempt.Signature != ""},
			Result:     result,
			Message:    attempt.Message,
			StartedAt:  attempt.StartedAt,
			FinishedAt: attempt.FinishedAt,
		}); err != nil {
			return fmt.Errorf("failed to insert mint attempt: %w", err)
		}
		return nil
	})
}

// Attempts returns the attempts of wallet (of all wallets if wallet is
// empty), newest first. pageID is 0 for the first page, otherwise the
// nextPageID returned by the previous call. nextPageID is 0 on the last
// page.
func (mdb *MintDB) Attempts(ctx context.Context, wallet string, pageID int64, limit int) (attempts []common.MintAttempt, nextPageID int64, err error) {
	defer mdb.trace("Attempts")()
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	if err := mdb.runRetryableTransaction(ctx, func(innerCtx context.Context, q *Queries) error {
		rows, err := q.SelectAttempts(innerCtx, SelectAttemptsParams{
			Wallet: wallet,
			Before: pageID,
			Limit:  int32(limit + 1), // One extra row tells whether there is a next page.
		})
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to select mint attempts: %w", err)
		}
		nextPageID = 0
		if len(rows) > limit {
			rows = rows[:limit]
			nextPageID = rows[limit-1].Seq
		}
		attempts = make([]common.MintAttempt, 0, len(rows))
		for _, row := range rows {
			attempts = append(attempts, attemptFromSql(row))
		}
		return nil
	}); err != nil {
		return nil, 0, err
	}
	return attempts, nextPageID, nil
}
