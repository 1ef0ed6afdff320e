package mintflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
)

var goLive = time.Date(2021, time.October, 9, 18, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testWallet struct {
	key solana.PrivateKey
}

func newTestWallet() *testWallet {
	return &testWallet{key: solana.NewWallet().PrivateKey}
}

func (w *testWallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

func (w *testWallet) SignTransaction(*solana.Transaction, ...solana.PrivateKey) error {
	return nil
}

var errRPC = errors.New("rpc unavailable")

// fakeChain implements Connection, StateReader and ProgramClient.
type fakeChain struct {
	mu sync.Mutex

	ctrl *Controller

	balance uint64
	cms     *common.CandyMachineState
	readErr error
	reads   int

	mintErr   error
	mintBlock chan struct{}
	mints     int

	statuses    []*common.TxStatus // The last one repeats.
	statusErrs  int                // Number of failing status queries before statuses.
	statusCalls int

	inFlight []bool // IsMinting observed during submission and polling.
}

func newFakeChain(available, redeemed uint64) *fakeChain {
	return &fakeChain{
		balance: 490_000_000,
		cms: &common.CandyMachineState{
			SupplyInfo: common.SupplyInfo{
				ItemsAvailable: available,
				ItemsRedeemed:  redeemed,
				ItemsRemaining: common.RemainingItems(available, redeemed),
			},
			GoLiveDate: goLive,
			Machine:    &common.CandyMachine{ID: solana.NewWallet().PublicKey()},
		},
		statuses: []*common.TxStatus{{Confirmed: true}},
	}
}

func (f *fakeChain) observe() {
	if f.ctrl != nil {
		f.inFlight = append(f.inFlight, f.ctrl.State().IsMinting)
	}
}

func (f *fakeChain) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance, nil
}

func (f *fakeChain) TransactionStatus(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) (*common.TxStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observe()
	f.statusCalls++
	if f.statusCalls <= f.statusErrs {
		return nil, errRPC
	}
	i := f.statusCalls - f.statusErrs - 1
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	return f.statuses[i], nil
}

func (f *fakeChain) CandyMachineState(ctx context.Context, wallet, candyMachineID solana.PublicKey) (*common.CandyMachineState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	cms := *f.cms
	return &cms, nil
}

func (f *fakeChain) MintOneToken(ctx context.Context, machine *common.CandyMachine, config solana.PublicKey, payer common.Wallet, treasury solana.PublicKey) (solana.Signature, error) {
	f.mu.Lock()
	f.observe()
	f.mints++
	block := f.mintBlock
	err := f.mintErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if err != nil {
		return solana.Signature{}, err
	}
	return solana.Signature{1, 2, 3}, nil
}

func (f *fakeChain) set(fn func(f *fakeChain)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeChain) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

type fakeJournal struct {
	mu       sync.Mutex
	attempts []common.MintAttempt
}

func (j *fakeJournal) AddAttempt(ctx context.Context, attempt *common.MintAttempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.attempts = append(j.attempts, *attempt)
	return nil
}

func newTestController(t *testing.T, chain *fakeChain, now time.Time) (*Controller, *testClock, *fakeJournal) {
	t.Helper()
	clock := &testClock{now: now}
	journal := &fakeJournal{}
	settings := Settings{
		CandyMachineID:       solana.NewWallet().PublicKey(),
		Config:               solana.NewWallet().PublicKey(),
		Treasury:             solana.NewWallet().PublicKey(),
		StartDate:            goLive.Add(time.Hour),
		TxTimeout:            100 * time.Millisecond,
		PollInterval:         5 * time.Millisecond,
		NotificationDuration: 6 * time.Second,
	}
	c := New(settings, golive.NewWithClock(clock.Now), chain, chain, chain, journal)
	chain.ctrl = c
	return c, clock, journal
}
