package model

import (
	"time"

	"gorm.io/gorm"
)

// Project funding project record. RaisedAmount mirrors the on-chain total and
// is maintained by the donation recorder and the reconcile job; claim
// eligibility is always decided from a fresh ledger read, never this cache.
type Project struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	// basic info
	Title       string `json:"title" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`

	// funding info, amounts in micro-USDT
	TargetAmount int64 `json:"target_amount" gorm:"not null" binding:"required,min=1"`
	RaisedAmount int64 `json:"raised_amount" gorm:"default:0"`

	// deadlines; OnChainDeadline is authoritative once published
	ProposedDeadline time.Time  `json:"proposed_deadline" gorm:"not null"`
	OnChainDeadline  *time.Time `json:"on_chain_deadline"`

	// status
	Status ProjectStatus `json:"status" gorm:"default:'PENDING_REVIEW'"`

	// owner info
	OwnerID     string `json:"owner_id" gorm:"not null;index"`
	OwnerName   string `json:"owner_name"`
	OwnerWallet string `json:"owner_wallet" gorm:"not null"`

	// chain linkage, set once by publication
	IsPublishedOnChain bool    `json:"is_published_on_chain" gorm:"default:false"`
	OnChainProjectID   *int64  `json:"on_chain_project_id" gorm:"uniqueIndex"`
	TxHashPublication  *string `json:"tx_hash_publication" gorm:"uniqueIndex"`
	Claimed            bool    `json:"claimed" gorm:"default:false"`

	// associations
	Team        []ProjectTeam      `json:"team,omitempty" gorm:"foreignKey:ProjectID"`
	Settlements []SettlementRecord `json:"settlements,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectStatus project status
type ProjectStatus string

const (
	ProjectStatusPendingReview ProjectStatus = "PENDING_REVIEW" // awaiting admin review
	ProjectStatusAktif         ProjectStatus = "AKTIF"          // approved, collecting donations
	ProjectStatusDitolak       ProjectStatus = "DITOLAK"        // rejected, terminal
	ProjectStatusSukses        ProjectStatus = "SUKSES"         // funded and claimed or past deadline funded
	ProjectStatusGagal         ProjectStatus = "GAGAL"          // past deadline underfunded
)

// TableName custom table name
func (Project) TableName() string {
	return "project"
}
