package common

import (
	"fmt"
	"time"
)

type Severity int

const (
	SeverityNone Severity = iota
	SeveritySuccess
	SeverityInfo
	SeverityWarning
	SeverityError

	SeverityCount
)

var severityNames = [SeverityCount]string{"", "success", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || s >= SeverityCount {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < 0 || s >= SeverityCount {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(text))
}

// Notification is the transient message shown after a mint attempt.
type Notification struct {
	Open     bool     `json:"open"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type SupplyInfo struct {
	ItemsAvailable uint64 `json:"items_available"`
	ItemsRedeemed  uint64 `json:"items_redeemed"`
	ItemsRemaining uint64 `json:"items_remaining"`
}

// MintSessionState is a snapshot of everything the mint screen displays.
type MintSessionState struct {
	SupplyInfo
	Wallet       string       `json:"wallet"`
	Balance      *float64     `json:"balance,omitempty"` // In SOL, nil until fetched.
	IsActive     bool         `json:"is_active"`
	IsSoldOut    bool         `json:"is_sold_out"`
	IsMinting    bool         `json:"is_minting"`
	StartDate    time.Time    `json:"start_date"`
	Notification Notification `json:"notification"`
}

type OutcomeKind int

const (
	ConfirmedSuccess OutcomeKind = iota
	ConfirmedError
	Timeout
)

func (k OutcomeKind) String() string {
	switch k {
	case ConfirmedSuccess:
		return "confirmed-success"
	case ConfirmedError:
		return "confirmed-error"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// UnknownErrorCode is used as TransactionOutcome.Code when a transaction
// failed without a custom program error code.
const UnknownErrorCode = -1

type TransactionOutcome struct {
	Kind OutcomeKind
	Code int // Only set for ConfirmedError.
}

// TxStatus is the status of a transaction as reported by the connection.
// Err holds the raw error payload of a failed transaction, Code its custom
// program error code or UnknownErrorCode.
type TxStatus struct {
	Confirmed bool
	Err       interface{}
	Code      int
}

// Candy machine error codes the mint flow reacts to.
const (
	CodeCandyMachineEmpty      = 311
	CodeCandyMachineNotLiveYet = 312
)

// ProgramError is a structured error returned by the candy machine program.
type ProgramError struct {
	Code int
	Msg  string
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("program error %d: %s", e.Code, e.Msg)
}

type AttemptResult string

const (
	AttemptSucceeded        AttemptResult = "succeeded"
	AttemptFailed           AttemptResult = "failed"
	AttemptTimedOut         AttemptResult = "timed_out"
	AttemptSubmissionFailed AttemptResult = "submission_failed"

	// The caller gave up (e.g. its context was cancelled) before the
	// transaction reached a terminal status.
	AttemptCancelled AttemptResult = "cancelled"
)

// MintAttempt is a journal record of one mint attempt.
type MintAttempt struct {
	ID         string        `json:"id"`
	Wallet     string        `json:"wallet"`
	Signature  string        `json:"signature,omitempty"`
	Result     AttemptResult `json:"result"`
	Message    string        `json:"message"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
}
