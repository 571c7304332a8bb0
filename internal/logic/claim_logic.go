package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
	"gorm.io/gorm"
)

// ClaimLogic records the one-time fund withdrawal for a project
type ClaimLogic struct {
	db     *gorm.DB
	chain  ledger.Ledger
	poller retry.Poller
}

// NewClaimLogic creates the claim processor
func NewClaimLogic(db *gorm.DB, chain ledger.Ledger, poller retry.Poller) *ClaimLogic {
	return &ClaimLogic{db: db, chain: chain, poller: poller}
}

// Record validates claim eligibility against the chain-reported totals and
// books the CLAIM settlement. The cached raised amount is never consulted for
// the release decision.
func (c *ClaimLogic) Record(ctx context.Context, projectID uint, callerID, txHash string) (*model.SettlementRecord, error) {
	if !txHashPattern.MatchString(txHash) {
		return nil, errs.New(errs.KindValidation, "claim tx hash is malformed")
	}

	var project model.Project
	if err := c.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project.OwnerID != callerID {
		return nil, errs.New(errs.KindValidation, "only the project owner may claim funds")
	}
	if !project.IsPublishedOnChain || project.OnChainProjectID == nil {
		return nil, errs.New(errs.KindValidation, "project is not published on chain")
	}
	if project.Claimed {
		return nil, errs.New(errs.KindInvariantViolation, "project funds are already claimed")
	}

	campaign, err := retry.Poll(ctx, c.poller, func(ctx context.Context) (*ledger.Campaign, retry.Outcome, error) {
		campaign, err := c.chain.ReadCampaign(ctx, *project.OnChainProjectID)
		if errors.Is(err, ledger.ErrCampaignNotFound) {
			return nil, retry.NotYet, nil
		}
		if err != nil {
			return nil, retry.Observed, err
		}
		return campaign, retry.Observed, nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, errs.New(errs.KindPendingConfirmation, "campaign not visible on chain, retry the claim later")
		}
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to read campaign")
	}

	if campaign.RaisedAmount < campaign.TargetAmount {
		return nil, errs.Newf(errs.KindValidation,
			"chain reports %d of %d raised, target not reached", campaign.RaisedAmount, campaign.TargetAmount)
	}

	record := &model.SettlementRecord{
		ProjectID: projectID,
		Wallet:    project.OwnerWallet,
		Amount:    campaign.RaisedAmount,
		TxHash:    txHash,
		Kind:      model.SettlementKindClaim,
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Newf(errs.KindDuplicateSettlement, "settlement %s is already recorded", txHash)
			}
			return err
		}

		// the conditional update is the arbiter between concurrent claims
		// that both observed claimed = false
		res := tx.Model(&model.Project{}).
			Where("id = ? AND claimed = ?", projectID, false).
			Updates(map[string]interface{}{
				"claimed": true,
				"status":  model.ProjectStatusSukses,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.New(errs.KindInvariantViolation, "project was claimed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Recorded claim of %d for project %d, tx %s", record.Amount, projectID, txHash)
	return record, nil
}
