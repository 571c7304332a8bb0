package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/septiandi71/IdeaFund-sub000/internal/config"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"gorm.io/gorm"
)

// ReconcileJob repairs the cached raised amounts against the authoritative
// chain totals and settles past-deadline project statuses
type ReconcileJob struct {
	db     *gorm.DB
	chain  ledger.Ledger
	config *config.Config
}

// NewReconcileJob creates the reconcile job
func NewReconcileJob(db *gorm.DB, chain ledger.Ledger, cfg *config.Config) *ReconcileJob {
	return &ReconcileJob{
		db:     db,
		chain:  chain,
		config: cfg,
	}
}

// GetName job name
func (j *ReconcileJob) GetName() string {
	return "project_reconcile"
}

// GetSchedule schedule definition
func (j *ReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute runs one reconcile sweep
func (j *ReconcileJob) Execute() {
	logger.Info("Starting project reconcile sweep")

	var projects []model.Project
	err := j.db.Where("is_published_on_chain = ? AND claimed = ?", true, false).
		Find(&projects).Error
	if err != nil {
		logger.Error("Failed to fetch projects for reconcile: %v", err)
		return
	}
	if len(projects) == 0 {
		return
	}

	workers := j.config.Task.Workers
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		logger.Error("Failed to create reconcile pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range projects {
		project := projects[i]
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			j.reconcileProject(project)
		}); err != nil {
			wg.Done()
			logger.Error("Failed to submit reconcile for project %d: %v", project.ID, err)
		}
	}
	wg.Wait()

	logger.Info("Project reconcile sweep completed, %d projects checked", len(projects))
}

// reconcileProject aligns one project with its chain record
func (j *ReconcileJob) reconcileProject(project model.Project) {
	if project.OnChainProjectID == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	campaign, err := j.chain.ReadCampaign(ctx, *project.OnChainProjectID)
	if err != nil {
		if errors.Is(err, ledger.ErrCampaignNotFound) {
			logger.Warn("Published project %d has no visible campaign yet", project.ID)
			return
		}
		logger.Error("Failed to read campaign for project %d: %v", project.ID, err)
		return
	}

	if campaign.RaisedAmount != project.RaisedAmount {
		res := j.db.Model(&model.Project{}).
			Where("id = ? AND raised_amount = ?", project.ID, project.RaisedAmount).
			Update("raised_amount", campaign.RaisedAmount)
		if res.Error != nil {
			logger.Error("Failed to repair raised amount for project %d: %v", project.ID, res.Error)
		} else if res.RowsAffected > 0 {
			logger.Info("Repaired raised amount for project %d: %d -> %d",
				project.ID, project.RaisedAmount, campaign.RaisedAmount)
		}
	}

	// settle past-deadline statuses; SUKSES via claim is handled by the
	// claim processor, GAGAL only ever comes from here
	if project.Status == model.ProjectStatusAktif && time.Now().After(campaign.Deadline) {
		status := model.ProjectStatusGagal
		if campaign.RaisedAmount >= campaign.TargetAmount {
			status = model.ProjectStatusSukses
		}
		res := j.db.Model(&model.Project{}).
			Where("id = ? AND status = ?", project.ID, model.ProjectStatusAktif).
			Update("status", status)
		if res.Error != nil {
			logger.Error("Failed to settle status for project %d: %v", project.ID, res.Error)
		} else if res.RowsAffected > 0 {
			logger.Info("Project %d settled as %s", project.ID, status)
		}
	}
}
