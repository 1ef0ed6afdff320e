package mintflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/common"
)

const DefaultPollInterval = time.Second

var errPending = errors.New("transaction has no terminal status yet")

// Poller waits for a transaction to reach a terminal status.
type Poller struct {
	conn     Connection
	interval time.Duration
	log      *logrus.Entry
}

func NewPoller(conn Connection, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		conn:     conn,
		interval: interval,
		log:      logrus.StandardLogger().WithField("type", "mintflow/poller"),
	}
}

// pollDelay returns the delay between status queries. At least two
// queries fit into timeout.
func pollDelay(interval, timeout time.Duration) time.Duration {
	if timeout <= 0 || interval < timeout {
		return interval
	}
	if half := timeout / 2; half > 0 {
		return half
	}
	return timeout
}

// Await polls the status of sig until it is confirmed at the commitment
// level, fails, or timeout elapses. Status query errors are treated as
// "still pending". Timeout is returned only after the timeout has elapsed
// or ctx is done.
func (p *Poller) Await(ctx context.Context, sig solana.Signature, timeout time.Duration, commitment rpc.CommitmentType) common.TransactionOutcome {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := pollDelay(p.interval, timeout)
	// The last attempt is scheduled at or after the deadline, so the
	// context, not the attempt count, ends the polling.
	attempts := uint(timeout/delay) + 2
	log := p.log.WithField("signature", sig.String())
	var outcome *common.TransactionOutcome
	_ = retry.Do(
		func() error {
			status, err := p.conn.TransactionStatus(ctx, sig, commitment)
			if err != nil {
				log.WithError(err).Debug("status query failed")
				return fmt.Errorf("%w: %v", errPending, err)
			}
			if status.Err != nil {
				outcome = &common.TransactionOutcome{Kind: common.ConfirmedError, Code: status.Code}
				return nil
			}
			if status.Confirmed {
				outcome = &common.TransactionOutcome{Kind: common.ConfirmedSuccess}
				return nil
			}
			return errPending
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errPending)
		}),
	)
	if outcome == nil {
		<-ctx.Done()
		log.WithField("timeout", timeout).Info("transaction confirmation timed out")
		return common.TransactionOutcome{Kind: common.Timeout}
	}
	return *outcome
}
