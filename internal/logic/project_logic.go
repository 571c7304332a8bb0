package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"gorm.io/gorm"
)

// ProjectLogic project lifecycle store operations
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic creates the project logic
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// CreateProject submits a project for review, creating the team atomically
// when one is supplied
func (p *ProjectLogic) CreateProject(project *model.Project, team []model.ProjectTeam) error {
	if err := p.validateProject(project); err != nil {
		return err
	}
	if len(team) > model.MaxTeamMembers {
		return errs.Newf(errs.KindValidation, "team exceeds %d additional members", model.MaxTeamMembers)
	}

	project.Status = model.ProjectStatusPendingReview
	project.RaisedAmount = 0
	project.IsPublishedOnChain = false
	project.Claimed = false

	return p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if len(team) == 0 {
			return nil
		}
		for i := range team {
			team[i].ProjectID = project.ID
		}
		// the owner always leads the team
		ketua := model.ProjectTeam{
			ProjectID:  project.ID,
			MemberName: project.OwnerName,
			MemberRole: string(model.TeamRoleKetua),
			StudentID:  project.OwnerID,
		}
		members := append([]model.ProjectTeam{ketua}, team...)
		return tx.Create(&members).Error
	})
}

// UpdateStatus applies the admin review decision. Only PENDING_REVIEW
// projects can move, and only to AKTIF or DITOLAK.
func (p *ProjectLogic) UpdateStatus(projectID uint, status model.ProjectStatus) error {
	if status != model.ProjectStatusAktif && status != model.ProjectStatusDitolak {
		return errs.Newf(errs.KindValidation, "status %s is not a review decision", status)
	}

	res := p.db.Model(&model.Project{}).
		Where("id = ? AND status = ?", projectID, model.ProjectStatusPendingReview).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var project model.Project
		if err := p.db.First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.New(errs.KindNotFound, "project not found")
			}
			return err
		}
		return errs.Newf(errs.KindValidation, "project is %s, not awaiting review", project.Status)
	}
	return nil
}

// GetProject loads one project with its team
func (p *ProjectLogic) GetProject(projectID uint) (*model.Project, error) {
	var project model.Project
	if err := p.db.Preload("Team").First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "project not found")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return &project, nil
}

// GetProjects lists projects with optional filters
func (p *ProjectLogic) GetProjects(status, category, owner string, page, pageSize int) ([]model.Project, int64, error) {
	query := p.db.Model(&model.Project{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if owner != "" {
		query = query.Where("owner_id = ?", owner)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// GetProjectDonations lists donation settlements for one project
func (p *ProjectLogic) GetProjectDonations(projectID uint, page, pageSize int) ([]model.SettlementRecord, int64, error) {
	query := p.db.Model(&model.SettlementRecord{}).
		Where("project_id = ? AND kind = ?", projectID, model.SettlementKindDonation)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var donations []model.SettlementRecord
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, total, nil
}

// GetProjectStats aggregates funding progress for one project
func (p *ProjectLogic) GetProjectStats(projectID uint) (map[string]interface{}, error) {
	project, err := p.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	var donationCount int64
	if err := p.db.Model(&model.SettlementRecord{}).
		Where("project_id = ? AND kind = ?", projectID, model.SettlementKindDonation).
		Count(&donationCount).Error; err != nil {
		return nil, err
	}

	var donorCount int64
	if err := p.db.Model(&model.SettlementRecord{}).
		Where("project_id = ? AND kind = ?", projectID, model.SettlementKindDonation).
		Distinct("wallet").
		Count(&donorCount).Error; err != nil {
		return nil, err
	}

	completion := float64(0)
	if project.TargetAmount > 0 {
		completion = float64(project.RaisedAmount) / float64(project.TargetAmount) * 100
	}

	remaining := time.Duration(0)
	if project.OnChainDeadline != nil && time.Now().Before(*project.OnChainDeadline) {
		remaining = time.Until(*project.OnChainDeadline)
	}

	return map[string]interface{}{
		"project_id":            project.ID,
		"raised_amount":         project.RaisedAmount,
		"target_amount":         project.TargetAmount,
		"completion_percentage": completion,
		"donation_count":        donationCount,
		"donor_count":           donorCount,
		"remaining_time":        remaining.String(),
		"status":                project.Status,
		"is_published_on_chain": project.IsPublishedOnChain,
		"claimed":               project.Claimed,
	}, nil
}

// validateProject checks owner-supplied fields
func (p *ProjectLogic) validateProject(project *model.Project) error {
	if project.Title == "" {
		return errs.New(errs.KindValidation, "title must not be empty")
	}
	if project.TargetAmount <= 0 {
		return errs.New(errs.KindValidation, "target amount must be greater than zero")
	}
	if project.OwnerID == "" || project.OwnerWallet == "" {
		return errs.New(errs.KindValidation, "owner identity and wallet are required")
	}
	if !project.ProposedDeadline.After(time.Now()) {
		return errs.New(errs.KindValidation, "deadline must be in the future")
	}
	return nil
}
