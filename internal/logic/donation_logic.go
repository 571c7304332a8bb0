package logic

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"gorm.io/gorm"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// DonationLogic records a single donation event exactly once
type DonationLogic struct {
	db    *gorm.DB
	chain ledger.Ledger
}

// NewDonationLogic creates the donation recorder
func NewDonationLogic(db *gorm.DB, chain ledger.Ledger) *DonationLogic {
	return &DonationLogic{db: db, chain: chain}
}

// DonationInput record-donation request
type DonationInput struct {
	ProjectID uint
	Wallet    string
	Amount    int64
	TxHash    string
}

// Record validates preconditions and appends the settlement. The unique index
// on tx_hash arbitrates duplicates at insert time; there is no read-then-write
// window for two requests carrying the same hash.
func (d *DonationLogic) Record(ctx context.Context, in DonationInput) (*model.SettlementRecord, error) {
	if err := d.validate(in); err != nil {
		return nil, err
	}

	var project model.Project
	if err := d.db.First(&project, in.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if !project.IsPublishedOnChain {
		return nil, errs.New(errs.KindValidation, "project is not published on chain, donations cannot be recorded")
	}
	if project.Claimed {
		return nil, errs.New(errs.KindValidation, "project funds are already claimed")
	}
	if project.OnChainDeadline != nil && time.Now().After(*project.OnChainDeadline) {
		return nil, errs.New(errs.KindValidation, "project deadline has passed")
	}

	record := &model.SettlementRecord{
		ProjectID: in.ProjectID,
		Wallet:    in.Wallet,
		Amount:    in.Amount,
		TxHash:    in.TxHash,
		Kind:      model.SettlementKindDonation,
	}

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Newf(errs.KindDuplicateSettlement, "settlement %s is already recorded", in.TxHash)
			}
			return err
		}

		// cache maintenance only; claims never read this total
		res := tx.Model(&model.Project{}).
			Where("id = ? AND is_published_on_chain = ?", in.ProjectID, true).
			Update("raised_amount", gorm.Expr("raised_amount + ?", in.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.New(errs.KindInvariantViolation, "project disappeared while recording donation")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Recorded donation of %d for project %d, tx %s", in.Amount, in.ProjectID, in.TxHash)
	return record, nil
}

// AllowanceStatus result of an allowance check before the two-step
// approve-then-donate flow
type AllowanceStatus struct {
	Allowance  int64  `json:"allowance"`
	Required   int64  `json:"required"`
	Sufficient bool   `json:"sufficient"`
	Spender    string `json:"spender"`
}

// CheckAllowance reports whether the donor still needs an approve
// transaction before donating. The answer can go stale by execution time; an
// insufficient-allowance revert at the chain layer is retryable after a fresh
// approval, not fatal.
func (d *DonationLogic) CheckAllowance(ctx context.Context, owner, spender string, amount int64) (*AllowanceStatus, error) {
	if owner == "" || spender == "" {
		return nil, errs.New(errs.KindValidation, "owner and spender wallets are required")
	}
	if amount <= 0 {
		return nil, errs.New(errs.KindValidation, "amount must be greater than zero")
	}

	allowance, err := d.chain.ReadAllowance(ctx, owner, spender)
	if err != nil {
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to read allowance")
	}

	return &AllowanceStatus{
		Allowance:  allowance,
		Required:   amount,
		Sufficient: allowance >= amount,
		Spender:    spender,
	}, nil
}

func (d *DonationLogic) validate(in DonationInput) error {
	if in.ProjectID == 0 {
		return errs.New(errs.KindValidation, "project id is required")
	}
	if in.Amount <= 0 {
		return errs.New(errs.KindValidation, "donation amount must be greater than zero")
	}
	if in.Wallet == "" {
		return errs.New(errs.KindValidation, "donor wallet is required")
	}
	if !txHashPattern.MatchString(in.TxHash) {
		return errs.New(errs.KindValidation, "settlement tx hash is malformed")
	}
	return nil
}
