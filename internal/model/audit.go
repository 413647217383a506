package model

type AuditType string

const (
	AuditTypeActivity  AuditType = "ACTIVITY"
	AuditTypeFundProof AuditType = "FUND_PROOF"
)

type AuditStatus string

const (
	AuditApproved AuditStatus = "APPROVED"
	AuditRejected AuditStatus = "REJECTED"
)

// AuditLog 审核记录，只追加不修改
type AuditLog struct {
	Model
	AuditorID   uint        `gorm:"not null;index" json:"auditor_id"`
	TargetID    uint        `gorm:"not null;index:idx_audit_target" json:"target_id"`
	AuditType   AuditType   `gorm:"type:varchar(20);not null;index:idx_audit_target" json:"audit_type"`
	AuditStatus AuditStatus `gorm:"type:varchar(20);not null" json:"audit_status"`
	Reason      string      `gorm:"type:varchar(500)" json:"reason"`
}
