package model

import (
	"time"
)

// SettlementRecord off-chain, append-only row documenting a single on-chain
// donation or claim. The unique index on TxHash spans both kinds and is the
// sole double-booking guard: the insert itself arbitrates duplicates.
type SettlementRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	ProjectID uint           `json:"project_id" gorm:"not null;index"`
	Wallet    string         `json:"wallet" gorm:"not null"`
	Amount    int64          `json:"amount" gorm:"not null"` // micro-USDT
	TxHash    string         `json:"tx_hash" gorm:"not null;uniqueIndex"`
	Kind      SettlementKind `json:"kind" gorm:"not null"`

	// association
	Project Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

// SettlementKind settlement kind
type SettlementKind string

const (
	SettlementKindDonation SettlementKind = "DONATION" // donor transfer into the campaign
	SettlementKindClaim    SettlementKind = "CLAIM"    // owner withdrawal of collected funds
)

// TableName custom table name
func (SettlementRecord) TableName() string {
	return "settlement_record"
}
