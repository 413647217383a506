package model

import "github.com/shopspring/decimal"

type PaymentStatus string

// PaymentCompleted 不接入支付网关，赞助创建即视为完成
const PaymentCompleted PaymentStatus = "COMPLETED"

type CrowdfundingSupport struct {
	Model
	ActivityID    uint            `gorm:"not null;index" json:"activity_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	TierID        *uint           `gorm:"index" json:"tier_id"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null" json:"payment_status"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type CrowdfundingTier struct {
	Model
	ActivityID   uint            `gorm:"not null;index" json:"activity_id"`
	Name         string          `gorm:"type:varchar(50);not null" json:"name"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description  string          `gorm:"type:varchar(255)" json:"description"`
	IsPreset     bool            `gorm:"default:false;not null" json:"is_preset"`
	DisplayOrder int             `gorm:"default:0;not null" json:"display_order"`
}
