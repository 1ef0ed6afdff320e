package minter

//go:generate go run ./gen/...

import (
	"context"

	"gitlab.com/scpcorp/candy-minter/common"
	"gitlab.com/scpcorp/candy-minter/golive"
)

type Service interface {
	State(ctx context.Context, req *StateRequest) (*StateResponse, error)
	Mint(ctx context.Context, req *MintRequest) (*MintResponse, error)
	DismissNotification(ctx context.Context, req *DismissNotificationRequest) (*DismissNotificationResponse, error)
	History(ctx context.Context, req *HistoryRequest) (*HistoryResponse, error)
}

type StateRequest struct {
}

type StateResponse struct {
	common.MintSessionState
	ShortWallet string           `json:"short_wallet"`
	Countdown   golive.Countdown `json:"countdown"`
}

type MintRequest struct {
}

type MintResponse struct {
	Notification common.Notification `json:"notification"`
}

type DismissNotificationRequest struct {
}

type DismissNotificationResponse struct {
}

type HistoryRequest struct {
	Wallet string `json:"wallet"` // Empty means all wallets.
	PageID int64  `json:"page_id"`
	Limit  int    `json:"limit"`
}

type HistoryResponse struct {
	Attempts   []common.MintAttempt `json:"attempts"`
	NextPageID int64                `json:"next_page_id"`
	More       bool                 `json:"more"`
}

type Error struct {
	Msg string
}

func (err Error) Error() string {
	return err.Msg
}
