package mintflow

import (
	"sync"
	"time"

	"gitlab.com/scpcorp/candy-minter/common"
)

// State holds the mint session. All updates of a field group happen under
// one lock, so readers never see a half-applied refresh.
type State struct {
	mu sync.Mutex

	session            common.MintSessionState
	machine            *common.CandyMachine
	notificationExpiry time.Time
}

func NewState(startDate time.Time) *State {
	return &State{
		session: common.MintSessionState{StartDate: startDate},
	}
}

// Snapshot returns a copy of the session.
func (st *State) Snapshot() common.MintSessionState {
	st.mu.Lock()
	defer st.mu.Unlock()
	session := st.session
	if st.session.Balance != nil {
		balance := *st.session.Balance
		session.Balance = &balance
	}
	return session
}

// Reset is called on wallet change.
func (st *State) Reset(wallet string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.Wallet = wallet
	st.session.Balance = nil
}

func (st *State) Machine() *common.CandyMachine {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.machine
}

// ApplyRefresh stores the result of a candy machine read. isActive tells
// whether the (possibly updated) start date has been reached.
func (st *State) ApplyRefresh(cms *common.CandyMachineState, isActive func(start time.Time) bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.SupplyInfo = cms.SupplyInfo
	st.session.IsSoldOut = cms.ItemsRemaining == 0
	if !cms.GoLiveDate.IsZero() {
		st.session.StartDate = cms.GoLiveDate
	}
	st.session.IsActive = isActive(st.session.StartDate)
	st.machine = cms.Machine
}

func (st *State) SetBalance(sol float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.Balance = &sol
}

func (st *State) SetSoldOut() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.IsSoldOut = true
}

// UpdateActive recomputes the active flag from the start date.
func (st *State) UpdateActive(isActive func(start time.Time) bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.IsActive = isActive(st.session.StartDate)
}

// TryStartMinting sets the in-flight flag. It returns false if a mint is
// already in flight.
func (st *State) TryStartMinting() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.session.IsMinting {
		return false
	}
	st.session.IsMinting = true
	return true
}

func (st *State) StopMinting() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.IsMinting = false
}

func (st *State) Notify(n common.Notification, expiry time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.Notification = n
	st.notificationExpiry = expiry
}

func (st *State) Dismiss() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.session.Notification.Open = false
}

// ExpireNotification closes the notification if it has been shown long
// enough. It reports whether it closed anything.
func (st *State) ExpireNotification(now time.Time) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.session.Notification.Open || now.Before(st.notificationExpiry) {
		return false
	}
	st.session.Notification.Open = false
	return true
}
