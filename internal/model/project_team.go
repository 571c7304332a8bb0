package model

import (
	"time"
)

// ProjectTeam project team member, created atomically with the project and
// immutable afterwards
type ProjectTeam struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID  uint   `json:"project_id" gorm:"not null;index"`
	MemberName string `json:"member_name" gorm:"not null"`
	MemberRole string `json:"member_role" gorm:"not null"` // ketua, anggota
	StudentID  string `json:"student_id" gorm:"not null"`
	Email      string `json:"email"`
}

// TeamRole team role
type TeamRole string

const (
	TeamRoleKetua   TeamRole = "ketua"   // owner
	TeamRoleAnggota TeamRole = "anggota" // additional member
)

// MaxTeamMembers additional members allowed beyond the ketua
const MaxTeamMembers = 4

// TableName custom table name
func (ProjectTeam) TableName() string {
	return "project_team"
}
