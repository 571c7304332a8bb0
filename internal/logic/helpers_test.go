package logic

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/septiandi71/IdeaFund-sub000/internal/database"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// busy timeout so concurrent writers queue on the file lock
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// instantPoller records requested delays instead of sleeping
func instantPoller(attempts int) (retry.Poller, *[]time.Duration) {
	slept := &[]time.Duration{}
	p := retry.Poller{
		InitialDelay: 2 * time.Second,
		Interval:     5 * time.Second,
		MaxAttempts:  attempts,
		Sleep: func(ctx context.Context, d time.Duration) error {
			*slept = append(*slept, d)
			return nil
		},
	}
	return p, slept
}

// fakeLedger scripted in-memory Ledger
type fakeLedger struct {
	mu sync.Mutex

	campaigns map[int64]*ledger.Campaign
	// ReadCampaign reports not-found this many times before consulting
	// campaigns, to model RPC visibility lag
	hideReads int
	readErr   error

	allowances map[string]int64

	createdTxHash string
	submitted     []string
	reads         int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		campaigns:     map[int64]*ledger.Campaign{},
		allowances:    map[string]int64{},
		createdTxHash: "0x" + strings64("ab"),
	}
}

// strings64 builds a 64-char hex body from a repeated pair
func strings64(pair string) string {
	s := ""
	for len(s) < 64 {
		s += pair
	}
	return s[:64]
}

func (f *fakeLedger) SubmitCreateCampaign(ctx context.Context, projectID int64, owner, title string, targetAmount int64, deadline time.Time, imageRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// the contract derives the canonical deadline from block time, so the
	// fake stores a shifted one on purpose
	f.campaigns[projectID] = &ledger.Campaign{
		Owner:        owner,
		TargetAmount: targetAmount,
		RaisedAmount: 0,
		Deadline:     deadline.Add(42 * time.Second).Truncate(time.Second),
	}
	f.submitted = append(f.submitted, "createCampaign")
	return f.createdTxHash, nil
}

func (f *fakeLedger) ReadCampaign(ctx context.Context, projectID int64) (*ledger.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.hideReads > 0 {
		f.hideReads--
		return nil, ledger.ErrCampaignNotFound
	}
	campaign, ok := f.campaigns[projectID]
	if !ok {
		return nil, ledger.ErrCampaignNotFound
	}
	copied := *campaign
	return &copied, nil
}

func (f *fakeLedger) SubmitDonate(ctx context.Context, projectID int64, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, "donate")
	return "0x" + strings64("cd"), nil
}

func (f *fakeLedger) ReadAllowance(ctx context.Context, owner, spender string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.allowances[owner], nil
}

func (f *fakeLedger) SubmitApprove(ctx context.Context, spender string, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, "approve")
	return "0x" + strings64("ef"), nil
}

func (f *fakeLedger) SubmitClaim(ctx context.Context, projectID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, "claim")
	return "0x" + strings64("12"), nil
}

func (f *fakeLedger) ReadDonators(ctx context.Context, projectID int64) ([]ledger.Donator, error) {
	return nil, nil
}

// seedProject inserts a project in the given shape and returns it
func seedProject(t *testing.T, db *gorm.DB, mutate func(*model.Project)) *model.Project {
	t.Helper()

	deadline := time.Now().Add(30 * 24 * time.Hour)
	project := &model.Project{
		Title:            "Solar charging station",
		Description:      "Campus solar charging pilot",
		Category:         "teknologi",
		TargetAmount:     1_000_000_000, // 1000 USDT
		ProposedDeadline: deadline,
		Status:           model.ProjectStatusAktif,
		OwnerID:          "2110512071",
		OwnerName:        "Septian Di",
		OwnerWallet:      "0x1111111111111111111111111111111111111111",
	}
	if mutate != nil {
		mutate(project)
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// publishProject flips a seeded project into the published shape
func publishProject(t *testing.T, db *gorm.DB, project *model.Project, deadline time.Time) {
	t.Helper()

	txHash := "0x" + strings64("99")
	onChainID := int64(project.ID)
	require.NoError(t, db.Model(project).Updates(map[string]interface{}{
		"is_published_on_chain": true,
		"on_chain_project_id":   onChainID,
		"on_chain_deadline":     deadline,
		"tx_hash_publication":   txHash,
	}).Error)
	project.IsPublishedOnChain = true
	project.OnChainProjectID = &onChainID
	project.OnChainDeadline = &deadline
	project.TxHashPublication = &txHash
}
