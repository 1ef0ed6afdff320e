package minter

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
	"gitlab.com/scpcorp/candy-minter/mintflow"
)

// ErrNoHistory is returned by History when the server runs without a journal.
var ErrNoHistory = errors.New("mint history is not available")

type Controller interface {
	State() common.MintSessionState
	Countdown() golive.Countdown
	Mint(ctx context.Context) (common.Notification, error)
	Dismiss()
	Tick()
	Refresh(ctx context.Context) error
	RefreshBalance(ctx context.Context) error
}

type Journal interface {
	Attempts(ctx context.Context, wallet string, pageID int64, limit int) ([]common.MintAttempt, int64, error)
}

type Settings struct {
	TickInterval    time.Duration
	RefreshInterval time.Duration // Zero disables periodic refresh.
}

type Server struct {
	settings Settings
	ctrl     Controller
	journal  Journal
	log      *logrus.Entry

	cancel context.CancelFunc
	stopWg sync.WaitGroup // Close waits for this WaitGroup.
}

// New starts the background loops. journal may be nil.
func New(settings Settings, ctrl Controller, journal Journal) *Server {
	if settings.TickInterval <= 0 {
		settings.TickInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		settings: settings,
		ctrl:     ctrl,
		journal:  journal,
		log:      logrus.StandardLogger().WithField("type", "minter"),
		cancel:   cancel,
	}
	s.runInALoop(ctx, "tick", settings.TickInterval, s.tick)
	if settings.RefreshInterval > 0 {
		s.runInALoop(ctx, "refresh", settings.RefreshInterval, s.refresh)
	}
	return s
}

func (s *Server) Close() error {
	s.cancel()
	s.stopWg.Wait()
	return nil
}

func (s *Server) State(ctx context.Context, req *StateRequest) (*StateResponse, error) {
	state := s.ctrl.State()
	return &StateResponse{
		MintSessionState: state,
		ShortWallet:      common.ShortenAddress(state.Wallet, common.ShortAddressChars),
		Countdown:        s.ctrl.Countdown(),
	}, nil
}

func (s *Server) Mint(ctx context.Context, req *MintRequest) (*MintResponse, error) {
	n, err := s.ctrl.Mint(ctx)
	switch {
	case err == nil:
		return &MintResponse{Notification: n}, nil
	case errors.Is(err, mintflow.ErrNoWallet),
		errors.Is(err, mintflow.ErrCandyMachineNotLoaded),
		errors.Is(err, mintflow.ErrMintInProgress):
		return nil, Error{Msg: err.Error()}
	default:
		return nil, err
	}
}

func (s *Server) DismissNotification(ctx context.Context, req *DismissNotificationRequest) (*DismissNotificationResponse, error) {
	s.ctrl.Dismiss()
	return &DismissNotificationResponse{}, nil
}

func (s *Server) History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error) {
	if s.journal == nil {
		return nil, Error{Msg: ErrNoHistory.Error()}
	}
	attempts, next, err := s.journal.Attempts(ctx, req.Wallet, req.PageID, req.Limit)
	if err != nil {
		s.log.WithError(err).Error("failed to read mint history")
		return nil, Error{Msg: "failed to read mint history"}
	}
	return &HistoryResponse{
		Attempts:   attempts,
		NextPageID: next,
		More:       next != 0,
	}, nil
}
