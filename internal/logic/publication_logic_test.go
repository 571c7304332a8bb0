package logic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
)

func TestPublish(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	// hide the campaign for the probe plus two read-backs, then reveal it
	chain.hideReads = 3
	poller, slept := instantPoller(5)

	project := seedProject(t, db, nil)

	logic := NewPublicationLogic(db, chain, poller)
	published, err := logic.Publish(context.Background(), project.ID, project.OwnerID)
	require.NoError(t, err)

	assert.True(t, published.IsPublishedOnChain)
	require.NotNil(t, published.OnChainProjectID)
	assert.Equal(t, int64(project.ID), *published.OnChainProjectID)
	require.NotNil(t, published.TxHashPublication)
	assert.Equal(t, chain.createdTxHash, *published.TxHashPublication)

	// the stored deadline is what the chain reported, not what was proposed
	require.NotNil(t, published.OnChainDeadline)
	want := chain.campaigns[int64(project.ID)].Deadline
	assert.WithinDuration(t, want, *published.OnChainDeadline, time.Second)
	assert.NotEqual(t, project.ProposedDeadline.Unix(), published.OnChainDeadline.Unix())

	// probe + 3 poll reads, initial delay + 2 retry intervals
	assert.Equal(t, 4, chain.reads)
	assert.Len(t, *slept, 3)
}

func TestPublishExhaustedLeavesProjectUnpublished(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	chain.hideReads = 100
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)

	logic := NewPublicationLogic(db, chain, poller)
	_, err := logic.Publish(context.Background(), project.ID, project.OwnerID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindPendingConfirmation))
	assert.Equal(t, chain.createdTxHash, errs.DetailOf(err), "the tx hash travels with the pending signal")

	// the transaction was submitted exactly once
	assert.Equal(t, []string{"createCampaign"}, chain.submitted)

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.False(t, fresh.IsPublishedOnChain)
	assert.Equal(t, model.ProjectStatusAktif, fresh.Status)
	assert.Nil(t, fresh.TxHashPublication)
}

func TestPublishAlreadyPublished(t *testing.T) {
	db := openTestDB(t)
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)
	publishProject(t, db, project, time.Now().Add(14*24*time.Hour))

	logic := NewPublicationLogic(db, newFakeLedger(), poller)
	_, err := logic.Publish(context.Background(), project.ID, project.OwnerID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvariantViolation))
}

func TestPublishExistingCampaignOnChain(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)
	// the chain already holds a campaign for this id, e.g. a previous publish
	// whose read-back was lost before persisting
	chain.campaigns[int64(project.ID)] = &ledger.Campaign{
		Owner:        project.OwnerWallet,
		TargetAmount: project.TargetAmount,
		Deadline:     time.Now().Add(14 * 24 * time.Hour),
	}

	logic := NewPublicationLogic(db, chain, poller)
	_, err := logic.Publish(context.Background(), project.ID, project.OwnerID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvariantViolation))
	assert.Empty(t, chain.submitted, "no second campaign may be created")
}

func TestPublishRequiresAktif(t *testing.T) {
	db := openTestDB(t)
	poller, _ := instantPoller(3)

	project := seedProject(t, db, func(p *model.Project) {
		p.Status = model.ProjectStatusPendingReview
	})

	logic := NewPublicationLogic(db, newFakeLedger(), poller)
	_, err := logic.Publish(context.Background(), project.ID, project.OwnerID)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestPublishNotOwner(t *testing.T) {
	db := openTestDB(t)
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)

	logic := NewPublicationLogic(db, newFakeLedger(), poller)
	_, err := logic.Publish(context.Background(), project.ID, "someone-else")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestConfirm(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)
	chainDeadline := time.Now().Add(21 * 24 * time.Hour).Truncate(time.Second)
	chain.campaigns[int64(project.ID)] = &ledger.Campaign{
		Owner:        project.OwnerWallet,
		TargetAmount: project.TargetAmount,
		Deadline:     chainDeadline,
	}

	// the posted deadline hint is wrong on purpose
	hinted := chainDeadline.Add(-3 * time.Hour)
	txHash := "0x" + strings64("5a")

	logic := NewPublicationLogic(db, chain, poller)
	confirmed, err := logic.Confirm(context.Background(), project.ID, project.OwnerID, txHash, int64(project.ID), hinted)
	require.NoError(t, err)

	assert.True(t, confirmed.IsPublishedOnChain)
	require.NotNil(t, confirmed.OnChainDeadline)
	assert.WithinDuration(t, chainDeadline, *confirmed.OnChainDeadline, time.Second)
	require.NotNil(t, confirmed.TxHashPublication)
	assert.Equal(t, txHash, *confirmed.TxHashPublication)
}

func TestConfirmIdempotent(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)
	chain.campaigns[int64(project.ID)] = &ledger.Campaign{
		Owner:        project.OwnerWallet,
		TargetAmount: project.TargetAmount,
		Deadline:     time.Now().Add(21 * 24 * time.Hour),
	}

	txHash := "0x" + strings64("5b")
	logic := NewPublicationLogic(db, chain, poller)

	first, err := logic.Confirm(context.Background(), project.ID, project.OwnerID, txHash, int64(project.ID), time.Now())
	require.NoError(t, err)

	_, err = logic.Confirm(context.Background(), project.ID, project.OwnerID, txHash, int64(project.ID), time.Now())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindDuplicateSettlement))

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, *first.TxHashPublication, *fresh.TxHashPublication)
	assert.Equal(t, first.OnChainDeadline.Unix(), fresh.OnChainDeadline.Unix(), "state unchanged by the replay")
}

func TestConfirmDifferentHashRejected(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)
	chain.campaigns[int64(project.ID)] = &ledger.Campaign{
		Owner:        project.OwnerWallet,
		TargetAmount: project.TargetAmount,
		Deadline:     time.Now().Add(21 * 24 * time.Hour),
	}

	logic := NewPublicationLogic(db, chain, poller)
	_, err := logic.Confirm(context.Background(), project.ID, project.OwnerID, "0x"+strings64("5c"), int64(project.ID), time.Now())
	require.NoError(t, err)

	_, err = logic.Confirm(context.Background(), project.ID, project.OwnerID, "0x"+strings64("5d"), int64(project.ID), time.Now())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvariantViolation))
}

func TestConfirmOnChainIDMustMatch(t *testing.T) {
	db := openTestDB(t)
	poller, _ := instantPoller(3)

	project := seedProject(t, db, nil)

	logic := NewPublicationLogic(db, newFakeLedger(), poller)
	_, err := logic.Confirm(context.Background(), project.ID, project.OwnerID, "0x"+strings64("5e"), int64(project.ID)+7, time.Now())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestConfirmCampaignNotVisible(t *testing.T) {
	db := openTestDB(t)
	chain := newFakeLedger()
	chain.hideReads = 100
	poller, _ := instantPoller(2)

	project := seedProject(t, db, nil)

	txHash := "0x" + strings64("5f")
	logic := NewPublicationLogic(db, chain, poller)
	_, err := logic.Confirm(context.Background(), project.ID, project.OwnerID, txHash, int64(project.ID), time.Now())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindPendingConfirmation))
	assert.Equal(t, txHash, errs.DetailOf(err))

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.False(t, fresh.IsPublishedOnChain)
}
