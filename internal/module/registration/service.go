// Package registration 报名管理：容量、截止时间与重复报名约束
package registration

import (
	"context"
	"strings"
	"time"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/activity"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	dir *identity.Directory
	now func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, dir *identity.Directory, opts ...Option) *Service {
	s := &Service{db: db, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegistrationData struct {
	ParticipantName string `json:"participant_name"`
	ContactPhone    string `json:"contact_phone"`
	Remarks         string `json:"remarks"`
}

// Register 锁住活动行后依次检查状态、截止时间、容量、重复报名，再插入
// registered_key 唯一索引兜底同一用户的并发重复报名
func (s *Service) Register(ctx context.Context, activityID uint, data RegistrationData, userHandle string) (*model.Registration, error) {
	user, err := s.dir.Resolve(ctx, userHandle)
	if err != nil {
		return nil, err
	}
	if err := tools.MaxLens(
		tools.MaxLen(strings.TrimSpace(data.ParticipantName), 50, "参与人姓名"),
		tools.MaxLen(data.ContactPhone, 20, "联系电话"),
		tools.MaxLen(data.Remarks, 255, "备注"),
	); err != nil {
		return nil, err
	}

	var reg *model.Registration
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := activity.Lock(tx, activityID)
		if err != nil {
			return err
		}
		now := s.now()
		if !a.EffectiveStatus(now).Joinable() {
			return response.ErrInvalidState.WithTips("活动当前不可报名")
		}
		if a.DeadlinePassed(now) {
			return response.ErrInvalidState.WithTips("报名已截止")
		}

		if !a.Unlimited() {
			var registered int64
			err := tx.Model(&model.Registration{}).
				Where("activity_id = ? AND status = ?", activityID, model.RegistrationRegistered).
				Count(&registered).Error
			if err != nil {
				return err
			}
			if registered >= int64(a.MaxParticipants) {
				return response.ErrCapacityFull
			}
		}

		var existing int64
		err = tx.Model(&model.Registration{}).
			Where("activity_id = ? AND user_id = ? AND status = ?", activityID, user.UserID, model.RegistrationRegistered).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return response.ErrConflict.WithTips("已报名该活动")
		}

		name := strings.TrimSpace(data.ParticipantName)
		if name == "" {
			name = user.NickName
		}
		reg = &model.Registration{
			ActivityID:      activityID,
			UserID:          user.UserID,
			ParticipantName: name,
			ContactPhone:    data.ContactPhone,
			Remarks:         data.Remarks,
			Status:          model.RegistrationRegistered,
			RegisteredKey:   model.RegisteredKeyOf(activityID, user.UserID),
		}
		if err := tx.Create(reg).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return response.ErrConflict.WithTips("已报名该活动")
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = database.TxError(err)
		if response.From(err).Internal() {
			log.Error("报名失败", "error", err, "activity_id", activityID, "user_id", user.UserID)
		} else {
			log.Warn("报名被拒绝", "error", err, "activity_id", activityID, "user_id", user.UserID)
		}
		return nil, err
	}
	log.Info("报名成功", "activity_id", activityID, "user_id", user.UserID, "registration_id", reg.ID)
	return reg, nil
}

// CancelRegistration 报名者本人或管理员可取消；已取消的再次取消返回 ErrInvalidState
func (s *Service) CancelRegistration(ctx context.Context, id uint, userHandle string) error {
	user, err := s.dir.Resolve(ctx, userHandle)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg model.Registration
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reg, id).Error
		if err != nil {
			return database.NotFoundOr(err, response.ErrNotFound.WithTips("报名不存在"))
		}
		if err := identity.RequireOwnerOrAdmin(user, reg.UserID); err != nil {
			return err
		}
		if reg.Status == model.RegistrationCancelled {
			return response.ErrInvalidState.WithTips("报名已取消")
		}
		return tx.Model(&reg).Updates(map[string]any{
			"status":         model.RegistrationCancelled,
			"registered_key": nil,
		}).Error
	})
	if err != nil {
		return database.TxError(err)
	}
	log.Info("取消报名成功", "registration_id", id, "student_id", user.StudentID)
	return nil
}

// ListByActivity 活动所有者或管理员查看报名名单
func (s *Service) ListByActivity(ctx context.Context, activityID uint, callerHandle string, page, size int) ([]model.Registration, int64, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, 0, err
	}
	var a model.Activity
	if err := s.db.WithContext(ctx).First(&a, activityID).Error; err != nil {
		return nil, 0, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if err := identity.RequireOwnerOrAdmin(caller, a.OrganizerID); err != nil {
		return nil, 0, err
	}
	return list(s.db.WithContext(ctx).Where("activity_id = ?", activityID), page, size, "User")
}

// ListMine 当前用户的报名记录，包含已取消的
func (s *Service) ListMine(ctx context.Context, userHandle string, page, size int) ([]model.Registration, int64, error) {
	user, err := s.dir.Resolve(ctx, userHandle)
	if err != nil {
		return nil, 0, err
	}
	return list(s.db.WithContext(ctx).Where("user_id = ?", user.UserID), page, size, "Activity")
}

func list(query *gorm.DB, page, size int, preload string) ([]model.Registration, int64, error) {
	if size <= 0 {
		size = 10
	}
	var total int64
	if err := query.Model(&model.Registration{}).Count(&total).Error; err != nil {
		log.Error("获取报名总数失败", "error", err)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}
	var regs []model.Registration
	if err := query.Preload(preload).Order("id ASC").Offset(tools.Offset(page, size)).Limit(size).Find(&regs).Error; err != nil {
		log.Error("获取报名列表失败", "error", err)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}
	return regs, total, nil
}
