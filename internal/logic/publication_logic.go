package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
	"gorm.io/gorm"
)

// PublicationLogic drives the one-time transition from approved off-chain
// project to published on-chain campaign
type PublicationLogic struct {
	db     *gorm.DB
	chain  ledger.Ledger
	poller retry.Poller
}

// NewPublicationLogic creates the publication coordinator
func NewPublicationLogic(db *gorm.DB, chain ledger.Ledger, poller retry.Poller) *PublicationLogic {
	return &PublicationLogic{db: db, chain: chain, poller: poller}
}

// Publish submits the create-campaign transaction and confirms it via
// read-back. The campaign's canonical deadline comes from that read-back, not
// from the submitted value, because the contract derives it from block time.
func (p *PublicationLogic) Publish(ctx context.Context, projectID uint, callerID string) (*model.Project, error) {
	project, err := p.loadOwned(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if project.IsPublishedOnChain {
		return nil, errs.New(errs.KindInvariantViolation, "project is already published on chain")
	}
	if project.Status != model.ProjectStatusAktif {
		return nil, errs.Newf(errs.KindValidation, "project is %s, only AKTIF projects can be published", project.Status)
	}

	// resubmitting would create a duplicate campaign, so probe first
	if _, err := p.chain.ReadCampaign(ctx, int64(project.ID)); err == nil {
		return nil, errs.New(errs.KindInvariantViolation,
			"a campaign already exists on chain for this project, confirm it instead of publishing again")
	} else if !errors.Is(err, ledger.ErrCampaignNotFound) {
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to probe chain for existing campaign")
	}

	txHash, err := p.chain.SubmitCreateCampaign(ctx,
		int64(project.ID),
		project.OwnerWallet,
		project.Title,
		project.TargetAmount,
		project.ProposedDeadline,
		project.ImageURL,
	)
	if err != nil {
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to submit create campaign")
	}
	logger.Info("Submitted campaign creation for project %d, tx %s", project.ID, txHash)

	campaign, err := p.readBack(ctx, int64(project.ID))
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			// the transaction was sent; the owner re-confirms later instead
			// of resubmitting
			return nil, errs.WithDetail(errs.KindPendingConfirmation,
				"publication sent but not yet confirmed on chain", txHash)
		}
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to read campaign back")
	}

	if err := p.persistPublication(project.ID, txHash, int64(project.ID), campaign.Deadline); err != nil {
		return nil, err
	}
	return p.reload(project.ID)
}

// Confirm records a publication observed by the owner's own wallet flow.
// Idempotent: re-posting the tx hash already on file is a no-op signalled as
// a duplicate.
func (p *PublicationLogic) Confirm(ctx context.Context, projectID uint, callerID, txHash string, onChainID int64, deadline time.Time) (*model.Project, error) {
	if txHash == "" {
		return nil, errs.New(errs.KindValidation, "publication tx hash is required")
	}
	if onChainID != int64(projectID) {
		return nil, errs.New(errs.KindValidation, "on-chain id must equal the internal project id")
	}

	project, err := p.loadOwned(projectID, callerID)
	if err != nil {
		return nil, err
	}
	if project.IsPublishedOnChain {
		if project.TxHashPublication != nil && *project.TxHashPublication == txHash {
			return nil, errs.New(errs.KindDuplicateSettlement, "publication already confirmed")
		}
		return nil, errs.New(errs.KindInvariantViolation, "project is published under a different transaction")
	}
	if project.Status != model.ProjectStatusAktif {
		return nil, errs.Newf(errs.KindValidation, "project is %s, only AKTIF projects can be confirmed", project.Status)
	}

	// the client-posted deadline is only a hint; the chain record is
	// authoritative
	campaign, err := p.readBack(ctx, onChainID)
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, errs.WithDetail(errs.KindPendingConfirmation,
				"campaign not yet visible on chain, retry confirmation later", txHash)
		}
		return nil, errs.Wrap(errs.KindLedgerRejected, err, "failed to read campaign")
	}

	if err := p.persistPublication(project.ID, txHash, onChainID, campaign.Deadline); err != nil {
		return nil, err
	}
	return p.reload(project.ID)
}

// readBack polls the campaign record until visible
func (p *PublicationLogic) readBack(ctx context.Context, onChainID int64) (*ledger.Campaign, error) {
	return retry.Poll(ctx, p.poller, func(ctx context.Context) (*ledger.Campaign, retry.Outcome, error) {
		campaign, err := p.chain.ReadCampaign(ctx, onChainID)
		if errors.Is(err, ledger.ErrCampaignNotFound) {
			return nil, retry.NotYet, nil
		}
		if err != nil {
			return nil, retry.Observed, err
		}
		return campaign, retry.Observed, nil
	})
}

// persistPublication links the project to its campaign exactly once
func (p *PublicationLogic) persistPublication(projectID uint, txHash string, onChainID int64, deadline time.Time) error {
	res := p.db.Model(&model.Project{}).
		Where("id = ? AND is_published_on_chain = ?", projectID, false).
		Updates(map[string]interface{}{
			"is_published_on_chain": true,
			"on_chain_project_id":   onChainID,
			"on_chain_deadline":     deadline,
			"tx_hash_publication":   txHash,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindInvariantViolation, "project was published concurrently")
	}
	logger.Info("Project %d published on chain, deadline %s, tx %s", projectID, deadline, txHash)
	return nil
}

func (p *PublicationLogic) loadOwned(projectID uint, callerID string) (*model.Project, error) {
	var project model.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project.OwnerID != callerID {
		return nil, errs.New(errs.KindValidation, "only the project owner may do this")
	}
	return &project, nil
}

func (p *PublicationLogic) reload(projectID uint) (*model.Project, error) {
	var project model.Project
	if err := p.db.First(&project, projectID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}
	return &project, nil
}
