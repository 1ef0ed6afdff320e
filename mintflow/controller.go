package mintflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
)

var (
	// ErrNoWallet indicates that no wallet is connected.
	ErrNoWallet = errors.New("wallet is not connected")

	// ErrCandyMachineNotLoaded indicates that candy machine state has not
	// been read yet, so the mint transaction cannot be built.
	ErrCandyMachineNotLoaded = errors.New("candy machine is not loaded")

	// ErrMintInProgress indicates that another mint attempt is in flight.
	ErrMintInProgress = errors.New("mint is already in progress")

	// ErrConfirmationTimeout indicates that a submitted transaction did not
	// reach a terminal status in time.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")
)

type Connection interface {
	Balance(ctx context.Context, addr solana.PublicKey) (uint64, error)
	TransactionStatus(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) (*common.TxStatus, error)
}

type StateReader interface {
	CandyMachineState(ctx context.Context, wallet, candyMachineID solana.PublicKey) (*common.CandyMachineState, error)
}

type ProgramClient interface {
	MintOneToken(ctx context.Context, machine *common.CandyMachine, config solana.PublicKey, payer common.Wallet, treasury solana.PublicKey) (solana.Signature, error)
}

// Journal records finished mint attempts.
type Journal interface {
	AddAttempt(ctx context.Context, attempt *common.MintAttempt) error
}

type Settings struct {
	CandyMachineID solana.PublicKey
	Config         solana.PublicKey
	Treasury       solana.PublicKey

	// Initial go-live date, replaced by the one read from the candy machine.
	StartDate time.Time

	TxTimeout            time.Duration
	Commitment           rpc.CommitmentType
	PollInterval         time.Duration
	NotificationDuration time.Duration
}

// Controller runs the mint flow of one session.
type Controller struct {
	settings   Settings
	conn       Connection
	reader     StateReader
	program    ProgramClient
	journal    Journal
	schedule   *golive.Schedule
	classifier *Classifier
	poller     *Poller
	state      *State
	log        *logrus.Entry

	walletMu sync.Mutex
	wallet   common.Wallet
}

// New creates a Controller. journal may be nil.
func New(settings Settings, schedule *golive.Schedule, conn Connection, reader StateReader, program ProgramClient, journal Journal) *Controller {
	if settings.TxTimeout <= 0 {
		settings.TxTimeout = common.DefaultTxTimeout
	}
	if settings.Commitment == "" {
		settings.Commitment = rpc.CommitmentConfirmed
	}
	if settings.NotificationDuration <= 0 {
		settings.NotificationDuration = common.DefaultNotificationDuration
	}
	c := &Controller{
		settings:   settings,
		conn:       conn,
		reader:     reader,
		program:    program,
		journal:    journal,
		schedule:   schedule,
		classifier: NewClassifier(DefaultRules),
		poller:     NewPoller(conn, settings.PollInterval),
		state:      NewState(settings.StartDate),
		log:        logrus.StandardLogger().WithField("type", "mintflow/controller"),
	}
	c.state.UpdateActive(schedule.IsActive)
	return c
}

func (c *Controller) Wallet() common.Wallet {
	c.walletMu.Lock()
	defer c.walletMu.Unlock()
	return c.wallet
}

// SetWallet connects (or, with nil, disconnects) a wallet and refreshes
// the balance and the candy machine state for it.
func (c *Controller) SetWallet(ctx context.Context, w common.Wallet) {
	c.walletMu.Lock()
	c.wallet = w
	c.walletMu.Unlock()

	if w == nil {
		c.state.Reset("")
		return
	}
	c.state.Reset(w.PublicKey().String())
	c.refreshBalance(ctx)
	c.refresh(ctx)
}

func (c *Controller) State() common.MintSessionState {
	return c.state.Snapshot()
}

func (c *Controller) Countdown() golive.Countdown {
	return c.schedule.Countdown(c.state.Snapshot().StartDate)
}

// Refresh reads the candy machine and updates supply counters, start date
// and sold-out flag together. On failure the state is left as is.
func (c *Controller) Refresh(ctx context.Context) error {
	w := c.Wallet()
	if w == nil {
		return ErrNoWallet
	}
	cms, err := c.reader.CandyMachineState(ctx, w.PublicKey(), c.settings.CandyMachineID)
	if err != nil {
		return fmt.Errorf("cannot read candy machine state: %w", err)
	}
	c.state.ApplyRefresh(cms, c.schedule.IsActive)
	return nil
}

func (c *Controller) RefreshBalance(ctx context.Context) error {
	w := c.Wallet()
	if w == nil {
		return ErrNoWallet
	}
	lamports, err := c.conn.Balance(ctx, w.PublicKey())
	if err != nil {
		return fmt.Errorf("cannot get wallet balance: %w", err)
	}
	c.state.SetBalance(common.LamportsToSol(lamports))
	return nil
}

func (c *Controller) refresh(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.log.WithError(err).Warn("candy machine refresh failed")
	}
}

func (c *Controller) refreshBalance(ctx context.Context) {
	if err := c.RefreshBalance(ctx); err != nil {
		c.log.WithError(err).Warn("balance refresh failed")
	}
}

// Dismiss closes the notification.
func (c *Controller) Dismiss() {
	c.state.Dismiss()
}

// Tick updates the time-driven parts of the state: the active flag and the
// notification expiry.
func (c *Controller) Tick() {
	c.state.UpdateActive(c.schedule.IsActive)
	c.state.ExpireNotification(c.schedule.Now())
}

// Mint runs one mint attempt: submit, wait for confirmation, classify the
// failure if any, then refresh balance and candy machine state. Every
// attempt ends with exactly one notification, which is also returned.
// Errors are returned only when the attempt could not start.
func (c *Controller) Mint(ctx context.Context) (common.Notification, error) {
	w := c.Wallet()
	if w == nil {
		return common.Notification{}, ErrNoWallet
	}
	machine := c.state.Machine()
	if machine == nil {
		c.refresh(ctx)
		return common.Notification{}, ErrCandyMachineNotLoaded
	}
	if !c.state.TryStartMinting() {
		return common.Notification{}, ErrMintInProgress
	}

	attempt := &common.MintAttempt{
		ID:        uuid.NewString(),
		Wallet:    w.PublicKey().String(),
		StartedAt: c.schedule.Now(),
	}
	log := c.log.WithFields(logrus.Fields{
		"method":  "Mint",
		"attempt": attempt.ID,
		"wallet":  attempt.Wallet,
	})
	log.Info("mint started")

	notification := c.submitAndConfirm(ctx, log, w, machine, attempt)
	c.state.StopMinting()
	now := c.schedule.Now()
	c.state.Notify(notification, now.Add(c.settings.NotificationDuration))

	attempt.Message = notification.Message
	attempt.FinishedAt = now
	log.WithFields(logrus.Fields{
		"result":  attempt.Result,
		"message": attempt.Message,
	}).Info("mint finished")

	// The caller may be gone by now; the attempt is still accounted for.
	postCtx, cancel := context.WithTimeout(context.Background(), c.settings.TxTimeout)
	defer cancel()
	c.refreshBalance(postCtx)
	c.refresh(postCtx)

	if c.journal != nil {
		if err := c.journal.AddAttempt(postCtx, attempt); err != nil {
			log.WithError(err).Warn("failed to record mint attempt")
		}
	}
	return notification, nil
}

func (c *Controller) submitAndConfirm(ctx context.Context, log *logrus.Entry, w common.Wallet, machine *common.CandyMachine, attempt *common.MintAttempt) common.Notification {
	sig, err := c.program.MintOneToken(ctx, machine, c.settings.Config, w, c.settings.Treasury)
	if err != nil {
		attempt.Result = common.AttemptSubmissionFailed
		if ctx.Err() != nil {
			attempt.Result = common.AttemptCancelled
		}
		return c.failure(log, fmt.Errorf("mint submission failed: %w", err))
	}
	attempt.Signature = sig.String()
	log = log.WithField("signature", attempt.Signature)
	log.Info("mint transaction submitted")

	outcome := c.poller.Await(ctx, sig, c.settings.TxTimeout, c.settings.Commitment)
	switch outcome.Kind {
	case common.ConfirmedSuccess:
		attempt.Result = common.AttemptSucceeded
		return common.Notification{
			Open:     true,
			Message:  MsgSucceeded,
			Severity: common.SeveritySuccess,
		}
	case common.ConfirmedError:
		attempt.Result = common.AttemptFailed
		return c.failure(log, &common.ProgramError{Code: outcome.Code, Msg: MsgConfirmFailed})
	default:
		if err := ctx.Err(); err != nil {
			attempt.Result = common.AttemptCancelled
			return c.failure(log, fmt.Errorf("confirmation aborted: %w", err))
		}
		attempt.Result = common.AttemptTimedOut
		return c.failure(log, fmt.Errorf("%w after %s", ErrConfirmationTimeout, c.settings.TxTimeout))
	}
}

func (c *Controller) failure(log *logrus.Entry, err error) common.Notification {
	rule, cls := c.classifier.classify(err)
	if cls.SoldOut {
		c.state.SetSoldOut()
	}
	log.WithError(err).WithField("rule", rule).Warn("mint failed")
	return common.Notification{
		Open:     true,
		Message:  cls.Message,
		Severity: common.SeverityError,
	}
}
