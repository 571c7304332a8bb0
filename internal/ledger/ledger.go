package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrCampaignNotFound the campaign is not visible on chain. Immediately after
// a confirmed submission this can still happen behind a lagging RPC node, so
// callers treat it as retryable via the poller.
var ErrCampaignNotFound = errors.New("campaign not found on chain")

// Campaign on-chain campaign state, amounts in the token's smallest unit
type Campaign struct {
	Owner        string    `json:"owner"`
	TargetAmount int64     `json:"target_amount"`
	RaisedAmount int64     `json:"raised_amount"`
	Deadline     time.Time `json:"deadline"`
	Claimed      bool      `json:"claimed"`
}

// Donator one donor entry reported by the contract
type Donator struct {
	Wallet string `json:"wallet"`
	Amount int64  `json:"amount"`
}

// Ledger read/write surface of the campaign contract and the USDT token.
// Constructed once and passed down so logic can run against a test double.
type Ledger interface {
	SubmitCreateCampaign(ctx context.Context, projectID int64, owner, title string, targetAmount int64, deadline time.Time, imageRef string) (string, error)
	ReadCampaign(ctx context.Context, projectID int64) (*Campaign, error)
	SubmitDonate(ctx context.Context, projectID int64, amount int64) (string, error)
	ReadAllowance(ctx context.Context, owner, spender string) (int64, error)
	SubmitApprove(ctx context.Context, spender string, amount int64) (string, error)
	SubmitClaim(ctx context.Context, projectID int64) (string, error)
	ReadDonators(ctx context.Context, projectID int64) ([]Donator, error)
}
