package task

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/septiandi71/IdeaFund-sub000/internal/config"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logger"
	"gorm.io/gorm"
)

// Job a registrable scheduled job
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager scheduled task manager
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	chain     ledger.Ledger
	config    *config.Config
}

// NewManager creates the task manager
func NewManager(db *gorm.DB, chain ledger.Ledger, cfg *config.Config) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: s,
		db:        db,
		chain:     chain,
		config:    cfg,
	}, nil
}

// Start registers all jobs and starts the scheduler
func Start(db *gorm.DB, chain ledger.Ledger, cfg *config.Config) *Manager {
	manager, err := NewManager(db, chain, cfg)
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	manager.register(NewReconcileJob(db, chain, cfg))
	manager.scheduler.Start()

	logger.Info("Task manager started")
	return manager
}

// register adds one job in singleton mode so a slow sweep never overlaps the
// next one
func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop shuts the scheduler down
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
