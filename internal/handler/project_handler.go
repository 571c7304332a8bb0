package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/septiandi71/IdeaFund-sub000/internal/logic"
	"github.com/septiandi71/IdeaFund-sub000/internal/middleware"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
	uploadDir    string
}

func NewProjectHandler(db *gorm.DB, uploadDir string) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db),
		uploadDir:    uploadDir,
	}
}

// CreateProject submits a project for review (multipart: metadata + image +
// optional team)
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	targetAmount, err := strconv.ParseInt(c.PostForm("target_amount"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "target_amount must be an integer amount in micro-USDT")
		return
	}

	deadline, err := time.Parse(time.RFC3339, c.PostForm("deadline"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "deadline must be RFC3339")
		return
	}

	var team []model.ProjectTeam
	if raw := c.PostForm("team"); raw != "" {
		var members []TeamMemberRequest
		if err := json.Unmarshal([]byte(raw), &members); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "team must be a JSON array")
			return
		}
		for _, m := range members {
			team = append(team, model.ProjectTeam{
				MemberName: m.MemberName,
				MemberRole: string(model.TeamRoleAnggota),
				StudentID:  m.StudentID,
				Email:      m.Email,
			})
		}
	}

	imageURL := ""
	if file, err := c.FormFile("image"); err == nil {
		name := uuid.NewString() + filepath.Ext(file.Filename)
		dst := filepath.Join(h.uploadDir, name)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			ErrorResponse(c, http.StatusInternalServerError, "failed to store project image")
			return
		}
		imageURL = "/uploads/" + name
	}

	project := &model.Project{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		Category:         c.PostForm("category"),
		ImageURL:         imageURL,
		TargetAmount:     targetAmount,
		ProposedDeadline: deadline,
		OwnerID:          c.GetString(middleware.ContextUserID),
		OwnerName:        c.PostForm("owner_name"),
		OwnerWallet:      c.GetString(middleware.ContextWallet),
	}

	if err := h.projectLogic.CreateProject(project, team); err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "project submitted for review", gin.H{
		"project_id": project.ID,
		"status":     project.Status,
	})
}

// GetProjects lists projects
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	category := c.Query("category")
	owner := c.Query("owner")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(status, category, owner, page, pageSize)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "projects", gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProject loads one project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := h.projectLogic.GetProject(id)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "project", project)
}

// UpdateStatus applies the admin review decision
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.projectLogic.UpdateStatus(id, model.ProjectStatus(req.Status)); err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "project status updated", gin.H{
		"project_id": id,
		"status":     req.Status,
	})
}

// GetProjectDonations lists donation settlements
func (h *ProjectHandler) GetProjectDonations(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	donations, total, err := h.projectLogic.GetProjectDonations(id, page, pageSize)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "donations", gin.H{
		"donations": donations,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProjectStats funding progress for one project
func (h *ProjectHandler) GetProjectStats(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	stats, err := h.projectLogic.GetProjectStats(id)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "stats", stats)
}

func parseProjectID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
