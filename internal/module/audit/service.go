// Package audit 管理员审核：活动与经费凭证的通过 / 驳回，每次决定追加一条审核记录
package audit

import (
	"context"
	"strings"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/activity"
	"campus-activity/internal/module/crowdfunding"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	dir *identity.Directory
}

func NewService(db *gorm.DB, dir *identity.Directory) *Service {
	return &Service{db: db, dir: dir}
}

// AuditActivity 状态迁移与审核记录在同一事务内完成
func (s *Service) AuditActivity(ctx context.Context, id uint, approve bool, reason, auditorHandle string) (*model.Activity, error) {
	auditor, err := s.requireAuditor(ctx, auditorHandle)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)

	var a *model.Activity
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if a, err = activity.Lock(tx, id); err != nil {
			return err
		}
		if a.Status != model.ActivityPendingAudit {
			return response.ErrInvalidState.WithTips("活动不在待审核状态")
		}
		if !approve && reason == "" {
			return response.ErrInvalidRequest.WithTips("驳回必须填写原因")
		}
		if err := tools.MaxLen(reason, 500, "审核原因"); err != nil {
			return err
		}

		to := model.ActivityRejected
		if approve {
			to = model.ActivityApproved
		}
		if err := activity.Transition(tx, id, model.ActivityPendingAudit, to); err != nil {
			return err
		}
		a.Status = to
		return appendLog(tx, auditor.UserID, id, model.AuditTypeActivity, approve, reason)
	})
	if err != nil {
		log.Warn("活动审核失败", "error", err, "activity_id", id, "auditor", auditor.StudentID)
		return nil, database.TxError(err)
	}
	log.Info("活动审核完成", "activity_id", id, "approve", approve, "auditor", auditor.StudentID)
	return a, nil
}

func (s *Service) AuditFundProof(ctx context.Context, id uint, approve bool, reason, auditorHandle string) (*model.FundProof, error) {
	auditor, err := s.requireAuditor(ctx, auditorHandle)
	if err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)

	var proof *model.FundProof
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if proof, err = crowdfunding.LockProof(tx, id); err != nil {
			return err
		}
		if proof.Status != model.FundProofPendingAudit {
			return response.ErrInvalidState.WithTips("凭证不在待审核状态")
		}
		if !approve && reason == "" {
			return response.ErrInvalidRequest.WithTips("驳回必须填写原因")
		}
		if err := tools.MaxLen(reason, 500, "审核原因"); err != nil {
			return err
		}

		to := model.FundProofRejected
		if approve {
			to = model.FundProofApproved
		}
		if err := crowdfunding.TransitionProof(tx, id, to); err != nil {
			return err
		}
		proof.Status = to
		return appendLog(tx, auditor.UserID, id, model.AuditTypeFundProof, approve, reason)
	})
	if err != nil {
		log.Warn("凭证审核失败", "error", err, "proof_id", id, "auditor", auditor.StudentID)
		return nil, database.TxError(err)
	}
	log.Info("凭证审核完成", "proof_id", id, "approve", approve, "auditor", auditor.StudentID)
	return proof, nil
}

// GetActivityAuditLogs 默认按写入顺序升序，desc 为 true 时最新的在前
func (s *Service) GetActivityAuditLogs(ctx context.Context, activityID uint, page, size int, desc bool) ([]model.AuditLog, int64, error) {
	db := s.db.WithContext(ctx)
	var a model.Activity
	if err := db.Select("id").First(&a, activityID).Error; err != nil {
		return nil, 0, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if size <= 0 {
		size = 10
	}

	query := db.Model(&model.AuditLog{}).
		Where("target_id = ? AND audit_type = ?", activityID, model.AuditTypeActivity)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取审核记录总数失败", "error", err, "activity_id", activityID)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}

	order := "id ASC"
	if desc {
		order = "id DESC"
	}
	var logs []model.AuditLog
	if err := query.Order(order).Offset(tools.Offset(page, size)).Limit(size).Find(&logs).Error; err != nil {
		log.Error("获取审核记录失败", "error", err, "activity_id", activityID)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}
	return logs, total, nil
}

func (s *Service) requireAuditor(ctx context.Context, handle string) (*identity.Identity, error) {
	auditor, err := s.dir.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(auditor, model.RoleAdmin); err != nil {
		log.Warn("非管理员尝试审核", "student_id", auditor.StudentID, "role", auditor.Role.String())
		return nil, err
	}
	return auditor, nil
}

func appendLog(tx *gorm.DB, auditorID, targetID uint, auditType model.AuditType, approve bool, reason string) error {
	status := model.AuditRejected
	if approve {
		status = model.AuditApproved
	}
	return tx.Create(&model.AuditLog{
		AuditorID:   auditorID,
		TargetID:    targetID,
		AuditType:   auditType,
		AuditStatus: status,
		Reason:      reason,
	}).Error
}
