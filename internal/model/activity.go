package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityStatus 活动审核 / 生命周期状态
// PENDING_AUDIT -> APPROVED | REJECTED，APPROVED -> ONGOING -> CLOSED
type ActivityStatus string

const (
	ActivityPendingAudit ActivityStatus = "PENDING_AUDIT"
	ActivityApproved     ActivityStatus = "APPROVED"
	ActivityRejected     ActivityStatus = "REJECTED"
	ActivityOngoing      ActivityStatus = "ONGOING"
	ActivityClosed       ActivityStatus = "CLOSED"
)

// AuditPassedStatuses 已通过审核的状态
var AuditPassedStatuses = []ActivityStatus{ActivityApproved, ActivityOngoing, ActivityClosed}

// Joinable 可报名、可赞助的状态
func (s ActivityStatus) Joinable() bool {
	return s == ActivityApproved || s == ActivityOngoing
}

type Activity struct {
	Model
	OrganizerID          uint            `gorm:"not null;index" json:"organizer_id"`
	Title                string          `gorm:"type:varchar(100);not null" json:"title"`
	Type                 string          `gorm:"type:varchar(50)" json:"type"`
	Description          string          `gorm:"type:varchar(1000)" json:"description"`
	StartTime            time.Time       `gorm:"not null" json:"start_time"`
	EndTime              time.Time       `gorm:"not null" json:"end_time"`
	RegistrationDeadline *time.Time      `json:"registration_deadline"`
	Location             string          `gorm:"type:varchar(255)" json:"location"`
	MaxParticipants      int             `gorm:"default:0;not null" json:"max_participants"` // 0 表示不限人数
	EnableCrowdfunding   bool            `gorm:"default:false;not null" json:"enable_crowdfunding"`
	CrowdfundingTarget   decimal.Decimal `gorm:"type:decimal(12,2);default:0;not null" json:"crowdfunding_target"`
	Status               ActivityStatus  `gorm:"type:varchar(20);not null;index" json:"status"`

	Organizer User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

// EffectiveStatus 按时间推导当前状态，只会沿状态机向前推进
func (a *Activity) EffectiveStatus(now time.Time) ActivityStatus {
	switch a.Status {
	case ActivityApproved:
		if !now.Before(a.EndTime) {
			return ActivityClosed
		}
		if !now.Before(a.StartTime) {
			return ActivityOngoing
		}
	case ActivityOngoing:
		if !now.Before(a.EndTime) {
			return ActivityClosed
		}
	}
	return a.Status
}

// DeadlinePassed 是否已过报名截止时间，未设置截止时间则永不过期
func (a *Activity) DeadlinePassed(now time.Time) bool {
	return a.RegistrationDeadline != nil && now.After(*a.RegistrationDeadline)
}

// Unlimited 是否不限报名人数
func (a *Activity) Unlimited() bool {
	return a.MaxParticipants <= 0
}
