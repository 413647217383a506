package model

import "github.com/shopspring/decimal"

type FundProofStatus string

const (
	FundProofPendingAudit FundProofStatus = "PENDING_AUDIT"
	FundProofApproved     FundProofStatus = "APPROVED"
	FundProofRejected     FundProofStatus = "REJECTED"
)

// FundProof 组织者提交的众筹经费使用凭证
type FundProof struct {
	Model
	ActivityID  uint            `gorm:"not null;index" json:"activity_id"`
	OrganizerID uint            `gorm:"not null;index" json:"organizer_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	FileKey     string          `gorm:"type:varchar(255)" json:"file_key"` // 对象存储中的凭证文件
	Status      FundProofStatus `gorm:"type:varchar(20);not null;index" json:"status"`
}
