package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"gitlab.com/scpcorp/candy-minter/common"
)

// Client talks to the cluster: it is the connection, the candy machine
// state reader and the program client of the mint flow.
type Client struct {
	Config
	rpc *rpc.Client
}

func NewClient(config Config) *Client {
	if config.Commitment == "" {
		config.Commitment = rpc.CommitmentConfirmed
	}
	return &Client{
		Config: config,
		rpc:    rpc.New(config.Cluster.RPC),
	}
}

// Balance returns the balance of addr in lamports.
func (c *Client) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	res, err := c.rpc.GetBalance(ctx, addr, c.Commitment)
	if err != nil {
		return 0, fmt.Errorf("cannot get balance: %w", err)
	}
	return res.Value, nil
}

// Deprecated commitment names are mapped to their current equivalents.
var commitmentRank = map[string]int{
	string(rpc.CommitmentProcessed): 0,
	"recent":                        0,
	string(rpc.CommitmentConfirmed): 1,
	"single":                        1,
	"singleGossip":                  1,
	string(rpc.CommitmentFinalized): 2,
	"max":                           2,
	"root":                          2,
}

// reached reports whether status has been confirmed at least at the given
// commitment level.
func reached(status *rpc.SignatureStatusesResult, commitment rpc.CommitmentType) bool {
	if status.Confirmations == nil {
		// Rooted.
		return true
	}
	got, ok := commitmentRank[string(status.ConfirmationStatus)]
	if !ok {
		return false
	}
	want, ok := commitmentRank[string(commitment)]
	if !ok {
		want = commitmentRank[string(rpc.CommitmentFinalized)]
	}
	return got >= want
}

// TransactionStatus returns the status of a transaction. Unknown
// transactions are reported as not confirmed without an error.
func (c *Client) TransactionStatus(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) (*common.TxStatus, error) {
	res, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return nil, fmt.Errorf("cannot get signature status: %w", err)
	}
	if len(res.Value) == 0 || res.Value[0] == nil {
		return &common.TxStatus{Code: common.UnknownErrorCode}, nil
	}
	status := res.Value[0]
	txStatus := &common.TxStatus{
		Confirmed: reached(status, commitment),
		Err:       status.Err,
		Code:      common.UnknownErrorCode,
	}
	if code, ok := customErrorCode(status.Err); ok {
		txStatus.Code = code
	}
	return txStatus, nil
}
