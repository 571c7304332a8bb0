package logic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
)

func newProjectInput() *model.Project {
	return &model.Project{
		Title:            "Hidroponik kampus",
		Description:      "Instalasi hidroponik untuk kantin",
		Category:         "lingkungan",
		TargetAmount:     250_000_000,
		ProposedDeadline: time.Now().Add(30 * 24 * time.Hour),
		OwnerID:          "2110512099",
		OwnerName:        "Ayu Lestari",
		OwnerWallet:      "0x3333333333333333333333333333333333333333",
	}
}

func TestCreateProject(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := newProjectInput()
	// the submitter cannot smuggle a pre-approved state in
	project.Status = model.ProjectStatusAktif
	project.RaisedAmount = 999
	project.IsPublishedOnChain = true
	project.Claimed = true

	require.NoError(t, logic.CreateProject(project, nil))

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, model.ProjectStatusPendingReview, fresh.Status)
	assert.Zero(t, fresh.RaisedAmount)
	assert.False(t, fresh.IsPublishedOnChain)
	assert.False(t, fresh.Claimed)
}

func TestCreateProjectWithTeam(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := newProjectInput()
	team := []model.ProjectTeam{
		{MemberName: "Budi", MemberRole: string(model.TeamRoleAnggota), StudentID: "2110512100"},
		{MemberName: "Citra", MemberRole: string(model.TeamRoleAnggota), StudentID: "2110512101"},
	}
	require.NoError(t, logic.CreateProject(project, team))

	var members []model.ProjectTeam
	require.NoError(t, db.Where("project_id = ?", project.ID).Order("id").Find(&members).Error)
	require.Len(t, members, 3)
	assert.Equal(t, string(model.TeamRoleKetua), members[0].MemberRole)
	assert.Equal(t, project.OwnerID, members[0].StudentID)
}

func TestCreateProjectTeamTooLarge(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	team := make([]model.ProjectTeam, model.MaxTeamMembers+1)
	for i := range team {
		team[i] = model.ProjectTeam{MemberName: "X", MemberRole: string(model.TeamRoleAnggota), StudentID: "21105"}
	}

	err := logic.CreateProject(newProjectInput(), team)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestCreateProjectValidation(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	cases := []struct {
		name   string
		mutate func(*model.Project)
	}{
		{"empty title", func(p *model.Project) { p.Title = "" }},
		{"zero target", func(p *model.Project) { p.TargetAmount = 0 }},
		{"missing owner", func(p *model.Project) { p.OwnerID = "" }},
		{"missing wallet", func(p *model.Project) { p.OwnerWallet = "" }},
		{"past deadline", func(p *model.Project) { p.ProposedDeadline = time.Now().Add(-time.Hour) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			project := newProjectInput()
			tc.mutate(project)
			err := logic.CreateProject(project, nil)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindValidation))
		})
	}
}

func TestUpdateStatusApprove(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := seedProject(t, db, func(p *model.Project) {
		p.Status = model.ProjectStatusPendingReview
	})

	require.NoError(t, logic.UpdateStatus(project.ID, model.ProjectStatusAktif))

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, model.ProjectStatusAktif, fresh.Status)
}

func TestUpdateStatusReject(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := seedProject(t, db, func(p *model.Project) {
		p.Status = model.ProjectStatusPendingReview
	})

	require.NoError(t, logic.UpdateStatus(project.ID, model.ProjectStatusDitolak))

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, model.ProjectStatusDitolak, fresh.Status)
}

func TestUpdateStatusOnlyFromPendingReview(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	for _, status := range []model.ProjectStatus{
		model.ProjectStatusAktif,
		model.ProjectStatusDitolak,
		model.ProjectStatusSukses,
		model.ProjectStatusGagal,
	} {
		project := seedProject(t, db, func(p *model.Project) { p.Status = status })

		err := logic.UpdateStatus(project.ID, model.ProjectStatusAktif)
		require.Error(t, err, "status %s must not move", status)
		assert.True(t, errs.Is(err, errs.KindValidation))

		var fresh model.Project
		require.NoError(t, db.First(&fresh, project.ID).Error)
		assert.Equal(t, status, fresh.Status)
	}
}

func TestUpdateStatusOnlyReviewDecisions(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := seedProject(t, db, func(p *model.Project) {
		p.Status = model.ProjectStatusPendingReview
	})

	for _, status := range []model.ProjectStatus{
		model.ProjectStatusPendingReview,
		model.ProjectStatusSukses,
		model.ProjectStatusGagal,
	} {
		err := logic.UpdateStatus(project.ID, status)
		require.Error(t, err, "decision %s must be rejected", status)
		assert.True(t, errs.Is(err, errs.KindValidation))
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	err := logic.UpdateStatus(9999, model.ProjectStatusAktif)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestGetProjectsFilters(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	seedProject(t, db, func(p *model.Project) { p.Status = model.ProjectStatusAktif })
	seedProject(t, db, func(p *model.Project) { p.Status = model.ProjectStatusPendingReview })
	seedProject(t, db, func(p *model.Project) {
		p.Status = model.ProjectStatusAktif
		p.OwnerID = "someone-else"
	})

	projects, total, err := logic.GetProjects(string(model.ProjectStatusAktif), "", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, projects, 2)

	_, total, err = logic.GetProjects("", "", "someone-else", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGetProjectStats(t *testing.T) {
	db := openTestDB(t)
	logic := NewProjectLogic(db)

	project := seedProject(t, db, func(p *model.Project) {
		p.RaisedAmount = 500_000_000
	})
	for i, wallet := range []string{"0xaa", "0xbb", "0xaa"} {
		require.NoError(t, db.Create(&model.SettlementRecord{
			ProjectID: project.ID,
			Wallet:    wallet,
			Amount:    100,
			TxHash:    "0x" + strings64([]string{"6a", "6b", "6c"}[i]),
			Kind:      model.SettlementKindDonation,
		}).Error)
	}

	stats, err := logic.GetProjectStats(project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["donation_count"])
	assert.Equal(t, int64(2), stats["donor_count"])
	assert.Equal(t, float64(50), stats["completion_percentage"])
}
