package ledger

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/septiandi71/IdeaFund-sub000/internal/config"
)

// campaign contract ABI (simplified)
const campaignABI = `[
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "owner", "type": "address"},
			{"name": "title", "type": "string"},
			{"name": "target", "type": "uint256"},
			{"name": "deadline", "type": "uint256"},
			{"name": "image", "type": "string"}
		],
		"name": "createCampaign",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "projectId", "type": "uint256"}],
		"name": "getCampaign",
		"outputs": [
			{"name": "owner", "type": "address"},
			{"name": "target", "type": "uint256"},
			{"name": "raised", "type": "uint256"},
			{"name": "deadline", "type": "uint256"},
			{"name": "claimed", "type": "bool"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "projectId", "type": "uint256"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "donate",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "projectId", "type": "uint256"}],
		"name": "claimFunds",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [{"name": "projectId", "type": "uint256"}],
		"name": "getDonators",
		"outputs": [
			{"name": "donators", "type": "address[]"},
			{"name": "amounts", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// ERC-20 surface needed for the approve/allowance flow
const erc20ABI = `[
	{
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

const submitGasLimit = 300000

// Client EVM-backed implementation of Ledger
type Client struct {
	client       *ethclient.Client
	privateKey   *ecdsa.PrivateKey
	from         common.Address
	chainID      *big.Int
	CampaignAddr common.Address
	TokenAddr    common.Address
	campaignABI  abi.ABI
	tokenABI     abi.ABI
}

func Init(cfg config.LedgerConfig) (*Client, error) {
	client, err := ethclient.Dial(cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum client: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	parsedCampaignABI, err := abi.JSON(strings.NewReader(campaignABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse campaign ABI: %w", err)
	}

	parsedTokenABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}

	return &Client{
		client:       client,
		privateKey:   privateKey,
		from:         crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:      big.NewInt(cfg.ChainId),
		CampaignAddr: common.HexToAddress(cfg.CampaignAddress),
		TokenAddr:    common.HexToAddress(cfg.TokenAddress),
		campaignABI:  parsedCampaignABI,
		tokenABI:     parsedTokenABI,
	}, nil
}

// SubmitCreateCampaign registers a campaign under the project's internal id
func (c *Client) SubmitCreateCampaign(ctx context.Context, projectID int64, owner, title string, targetAmount int64, deadline time.Time, imageRef string) (string, error) {
	data, err := c.campaignABI.Pack("createCampaign",
		big.NewInt(projectID),
		common.HexToAddress(owner),
		title,
		big.NewInt(targetAmount),
		big.NewInt(deadline.Unix()),
		imageRef,
	)
	if err != nil {
		return "", fmt.Errorf("failed to pack createCampaign: %w", err)
	}
	return c.submit(ctx, c.CampaignAddr, data)
}

// ReadCampaign reads the campaign record; ErrCampaignNotFound when the slot
// is empty or the node does not see it yet
func (c *Client) ReadCampaign(ctx context.Context, projectID int64) (*Campaign, error) {
	data, err := c.campaignABI.Pack("getCampaign", big.NewInt(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack getCampaign: %w", err)
	}

	out, err := c.call(ctx, c.CampaignAddr, data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrCampaignNotFound
	}

	values, err := c.campaignABI.Unpack("getCampaign", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getCampaign: %w", err)
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("unexpected getCampaign output arity: %d", len(values))
	}

	ownerAddr, ok := values[0].(common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected owner type in getCampaign output")
	}
	if ownerAddr == (common.Address{}) {
		return nil, ErrCampaignNotFound
	}

	target, _ := values[1].(*big.Int)
	raised, _ := values[2].(*big.Int)
	deadline, _ := values[3].(*big.Int)
	claimed, _ := values[4].(bool)
	if target == nil || raised == nil || deadline == nil {
		return nil, fmt.Errorf("unexpected amount types in getCampaign output")
	}

	targetAmount, err := uint256ToInt64(target, "campaign target")
	if err != nil {
		return nil, err
	}
	raisedAmount, err := uint256ToInt64(raised, "campaign raised amount")
	if err != nil {
		return nil, err
	}
	deadlineTs, err := uint256ToInt64(deadline, "campaign deadline")
	if err != nil {
		return nil, err
	}

	return &Campaign{
		Owner:        ownerAddr.Hex(),
		TargetAmount: targetAmount,
		RaisedAmount: raisedAmount,
		Deadline:     time.Unix(deadlineTs, 0),
		Claimed:      claimed,
	}, nil
}

// SubmitDonate transfers approved tokens into the campaign
func (c *Client) SubmitDonate(ctx context.Context, projectID int64, amount int64) (string, error) {
	data, err := c.campaignABI.Pack("donate", big.NewInt(projectID), big.NewInt(amount))
	if err != nil {
		return "", fmt.Errorf("failed to pack donate: %w", err)
	}
	return c.submit(ctx, c.CampaignAddr, data)
}

// ReadAllowance reads the token allowance granted by owner to spender
func (c *Client) ReadAllowance(ctx context.Context, owner, spender string) (int64, error) {
	data, err := c.tokenABI.Pack("allowance",
		common.HexToAddress(owner), common.HexToAddress(spender))
	if err != nil {
		return 0, fmt.Errorf("failed to pack allowance: %w", err)
	}

	out, err := c.call(ctx, c.TokenAddr, data)
	if err != nil {
		return 0, err
	}

	values, err := c.tokenABI.Unpack("allowance", out)
	if err != nil {
		return 0, fmt.Errorf("failed to unpack allowance: %w", err)
	}
	allowance, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected allowance type")
	}
	return clampAllowance(allowance), nil
}

// SubmitApprove grants spender an allowance on the token
func (c *Client) SubmitApprove(ctx context.Context, spender string, amount int64) (string, error) {
	data, err := c.tokenABI.Pack("approve", common.HexToAddress(spender), big.NewInt(amount))
	if err != nil {
		return "", fmt.Errorf("failed to pack approve: %w", err)
	}
	return c.submit(ctx, c.TokenAddr, data)
}

// SubmitClaim withdraws the collected funds to the campaign owner
func (c *Client) SubmitClaim(ctx context.Context, projectID int64) (string, error) {
	data, err := c.campaignABI.Pack("claimFunds", big.NewInt(projectID))
	if err != nil {
		return "", fmt.Errorf("failed to pack claimFunds: %w", err)
	}
	return c.submit(ctx, c.CampaignAddr, data)
}

// ReadDonators lists donor addresses and their totals for a campaign
func (c *Client) ReadDonators(ctx context.Context, projectID int64) ([]Donator, error) {
	data, err := c.campaignABI.Pack("getDonators", big.NewInt(projectID))
	if err != nil {
		return nil, fmt.Errorf("failed to pack getDonators: %w", err)
	}

	out, err := c.call(ctx, c.CampaignAddr, data)
	if err != nil {
		return nil, err
	}

	values, err := c.campaignABI.Unpack("getDonators", out)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getDonators: %w", err)
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected getDonators output arity: %d", len(values))
	}

	addrs, ok := values[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("unexpected donator address list type")
	}
	amounts, ok := values[1].([]*big.Int)
	if !ok || len(amounts) != len(addrs) {
		return nil, fmt.Errorf("unexpected donator amount list")
	}

	donators := make([]Donator, 0, len(addrs))
	for i, addr := range addrs {
		amount, err := uint256ToInt64(amounts[i], "donator amount")
		if err != nil {
			return nil, err
		}
		donators = append(donators, Donator{
			Wallet: addr.Hex(),
			Amount: amount,
		})
	}
	return donators, nil
}

// GetAccountAddress service signing address
func (c *Client) GetAccountAddress() common.Address {
	return c.from
}

// uint256ToInt64 converts a chain amount, rejecting values int64 cannot hold
// so they never wrap into the eligibility comparisons
func uint256ToInt64(v *big.Int, what string) (int64, error) {
	if !v.IsInt64() {
		return 0, fmt.Errorf("%s %s exceeds the representable amount range", what, v.String())
	}
	return v.Int64(), nil
}

// clampAllowance caps an over-range allowance instead of failing: an
// allowance past int64 already covers every representable required amount
func clampAllowance(v *big.Int) int64 {
	if !v.IsInt64() {
		return math.MaxInt64
	}
	return v.Int64()
}

func (c *Client) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{From: c.from, To: &to, Data: data}
	out, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("contract call failed: %w", err)
	}
	return out, nil
}

func (c *Client) submit(ctx context.Context, to common.Address, data []byte) (string, error) {
	nonce, err := c.client.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gas price: %w", err)
	}

	tx := types.NewTransaction(nonce, to, big.NewInt(0), submitGasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}
