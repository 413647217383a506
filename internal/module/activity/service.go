package activity

import (
	"context"
	"strings"
	"time"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service 活动目录：活动的增删改查与审核状态机
type Service struct {
	db  *gorm.DB
	dir *identity.Directory
	now func() time.Time
}

type Option func(*Service)

// WithClock 替换时间源
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

// ActivityData 创建活动的输入，Status 字段会被忽略
type ActivityData struct {
	Title                string               `json:"title"`
	Type                 string               `json:"type"`
	Description          string               `json:"description"`
	StartTime            time.Time            `json:"start_time"`
	EndTime              time.Time            `json:"end_time"`
	RegistrationDeadline *time.Time           `json:"registration_deadline"`
	Location             string               `json:"location"`
	MaxParticipants      int                  `json:"max_participants"`
	EnableCrowdfunding   bool                 `json:"enable_crowdfunding"`
	CrowdfundingTarget   *decimal.Decimal     `json:"crowdfunding_target"`
	Status               model.ActivityStatus `json:"status"`
}

// ActivityUpdate 部分更新，nil 字段保持不变
type ActivityUpdate struct {
	Title                *string          `json:"title"`
	Type                 *string          `json:"type"`
	Description          *string          `json:"description"`
	StartTime            *time.Time       `json:"start_time"`
	EndTime              *time.Time       `json:"end_time"`
	RegistrationDeadline *time.Time       `json:"registration_deadline"`
	Location             *string          `json:"location"`
	MaxParticipants      *int             `json:"max_participants"`
	EnableCrowdfunding   *bool            `json:"enable_crowdfunding"`
	CrowdfundingTarget   *decimal.Decimal `json:"crowdfunding_target"`
}

func (s *Service) CreateActivity(ctx context.Context, data ActivityData, ownerHandle string) (*model.Activity, error) {
	owner, err := s.dir.Resolve(ctx, ownerHandle)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(owner, model.RoleOrganizer, model.RoleAdmin); err != nil {
		log.Warn("无权限创建活动", "student_id", owner.StudentID, "role", owner.Role.String())
		return nil, err
	}

	a := &model.Activity{
		OrganizerID:          owner.UserID,
		Title:                strings.TrimSpace(data.Title),
		Type:                 data.Type,
		Description:          data.Description,
		StartTime:            data.StartTime,
		EndTime:              data.EndTime,
		RegistrationDeadline: data.RegistrationDeadline,
		Location:             data.Location,
		MaxParticipants:      data.MaxParticipants,
		EnableCrowdfunding:   data.EnableCrowdfunding,
		Status:               model.ActivityPendingAudit,
	}
	if data.CrowdfundingTarget != nil {
		a.CrowdfundingTarget = *data.CrowdfundingTarget
	}
	if err := validate(a); err != nil {
		log.Warn("活动参数不合法", "error", err, "student_id", owner.StudentID)
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		log.Error("创建活动失败", "error", err, "title", a.Title)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	log.Info("活动创建成功", "activity_id", a.ID, "organizer_id", a.OrganizerID)
	return a, nil
}

// UpdateActivity 仅所有者或管理员可改，且只能在待审核时修改
func (s *Service) UpdateActivity(ctx context.Context, id uint, data ActivityUpdate, callerHandle string) (*model.Activity, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, err
	}

	var a model.Activity
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActivity(tx, id, &a); err != nil {
			return err
		}
		if err := identity.RequireOwnerOrAdmin(caller, a.OrganizerID); err != nil {
			log.Warn("无权限修改活动", "activity_id", id, "student_id", caller.StudentID)
			return err
		}
		if a.Status != model.ActivityPendingAudit {
			return response.ErrInvalidState.WithTips("活动已审核，不能修改")
		}

		apply(&a, data)
		if err := validate(&a); err != nil {
			return err
		}
		return tx.Save(&a).Error
	})
	if err != nil {
		return nil, database.TxError(err)
	}
	log.Info("活动更新成功", "activity_id", id, "student_id", caller.StudentID)
	return &a, nil
}

// DeleteActivity 软删除，仍有报名或赞助记录时拒绝
func (s *Service) DeleteActivity(ctx context.Context, id uint, callerHandle string) error {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a model.Activity
		if err := lockActivity(tx, id, &a); err != nil {
			return err
		}
		if err := identity.RequireOwnerOrAdmin(caller, a.OrganizerID); err != nil {
			log.Warn("无权限删除活动", "activity_id", id, "student_id", caller.StudentID)
			return err
		}

		var registrations, supports int64
		if err := tx.Model(&model.Registration{}).Where("activity_id = ?", id).Count(&registrations).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CrowdfundingSupport{}).Where("activity_id = ?", id).Count(&supports).Error; err != nil {
			return err
		}
		if registrations > 0 || supports > 0 {
			return response.ErrConflict.WithTips("活动已有报名或赞助记录，不能删除")
		}
		return tx.Delete(&a).Error
	})
	if err != nil {
		return database.TxError(err)
	}
	log.Info("活动删除成功", "activity_id", id, "student_id", caller.StudentID)
	return nil
}

// GetActivity 返回的 Status 为按当前时间推导后的状态
func (s *Service) GetActivity(ctx context.Context, id uint) (*model.Activity, error) {
	var a model.Activity
	err := s.db.WithContext(ctx).Preload("Organizer").First(&a, id).Error
	if err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	a.Status = a.EffectiveStatus(s.now())
	return &a, nil
}

// ListFilter 活动列表筛选条件，零值表示不筛选
type ListFilter struct {
	OrganizerID uint
	Status      model.ActivityStatus
	Title       string
	Type        string
	Page        int
	PageSize    int
}

func (s *Service) ListActivities(ctx context.Context, filter ListFilter) ([]model.Activity, int64, error) {
	now := s.now()
	query := s.db.WithContext(ctx).Model(&model.Activity{})
	if filter.OrganizerID != 0 {
		query = query.Where("organizer_id = ?", filter.OrganizerID)
	}
	if filter.Title != "" {
		query = query.Where("title LIKE ?", "%"+filter.Title+"%")
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = whereEffectiveStatus(query, filter.Status, now)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Error("获取活动总数失败", "error", err)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}

	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	var activities []model.Activity
	err := query.Preload("Organizer").
		Order("start_time ASC, id ASC").
		Offset(tools.Offset(filter.Page, filter.PageSize)).Limit(filter.PageSize).
		Find(&activities).Error
	if err != nil {
		log.Error("获取活动列表失败", "error", err)
		return nil, 0, response.ErrDatabase.WithOrigin(err)
	}
	for i := range activities {
		activities[i].Status = activities[i].EffectiveStatus(now)
	}
	return activities, total, nil
}

// AdvanceStatuses 把按时间应发生的 APPROVED->ONGOING->CLOSED 迁移落库，返回迁移次数
// 由外部定时任务通过管理接口触发
func (s *Service) AdvanceStatuses(ctx context.Context) (int64, error) {
	now := s.now()
	var moved int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		started := tx.Model(&model.Activity{}).
			Where("status = ? AND start_time <= ?", model.ActivityApproved, now).
			Update("status", model.ActivityOngoing)
		if started.Error != nil {
			return started.Error
		}
		closed := tx.Model(&model.Activity{}).
			Where("status = ? AND end_time <= ?", model.ActivityOngoing, now).
			Update("status", model.ActivityClosed)
		if closed.Error != nil {
			return closed.Error
		}
		moved = started.RowsAffected + closed.RowsAffected
		return nil
	})
	if err != nil {
		log.Error("推进活动状态失败", "error", err)
		return 0, response.ErrDatabase.WithOrigin(err)
	}
	log.Info("活动状态推进完成", "moved", moved)
	return moved, nil
}

// Transition 审核迁移，必须在调用方事务内执行
// 条件更新保证只有处于 from 状态的活动会被修改
func Transition(tx *gorm.DB, id uint, from, to model.ActivityStatus) error {
	result := tx.Model(&model.Activity{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected != 1 {
		return response.ErrInvalidState.WithTips("活动不是", string(from), "状态")
	}
	return nil
}

// Lock 在事务内锁定活动行
func Lock(tx *gorm.DB, id uint) (*model.Activity, error) {
	var a model.Activity
	if err := lockActivity(tx, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func lockActivity(tx *gorm.DB, id uint, a *model.Activity) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(a, id).Error
	return database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
}

func whereEffectiveStatus(query *gorm.DB, status model.ActivityStatus, now time.Time) *gorm.DB {
	live := []model.ActivityStatus{model.ActivityApproved, model.ActivityOngoing}
	switch status {
	case model.ActivityApproved:
		return query.Where("status = ? AND start_time > ? AND end_time > ?", model.ActivityApproved, now, now)
	case model.ActivityOngoing:
		return query.Where("status IN ? AND start_time <= ? AND end_time > ?", live, now, now)
	case model.ActivityClosed:
		return query.Where("status = ? OR (status IN ? AND end_time <= ?)", model.ActivityClosed, live, now)
	default:
		return query.Where("status = ?", status)
	}
}

func apply(a *model.Activity, data ActivityUpdate) {
	if data.Title != nil {
		a.Title = strings.TrimSpace(*data.Title)
	}
	if data.Type != nil {
		a.Type = *data.Type
	}
	if data.Description != nil {
		a.Description = *data.Description
	}
	if data.StartTime != nil {
		a.StartTime = *data.StartTime
	}
	if data.EndTime != nil {
		a.EndTime = *data.EndTime
	}
	if data.RegistrationDeadline != nil {
		a.RegistrationDeadline = data.RegistrationDeadline
	}
	if data.Location != nil {
		a.Location = *data.Location
	}
	if data.MaxParticipants != nil {
		a.MaxParticipants = *data.MaxParticipants
	}
	if data.EnableCrowdfunding != nil {
		a.EnableCrowdfunding = *data.EnableCrowdfunding
	}
	if data.CrowdfundingTarget != nil {
		a.CrowdfundingTarget = *data.CrowdfundingTarget
	}
}

func validate(a *model.Activity) error {
	if a.Title == "" {
		return response.ErrInvalidRequest.WithTips("活动标题不能为空")
	}
	if err := tools.MaxLens(
		tools.MaxLen(a.Title, 100, "活动标题"),
		tools.MaxLen(a.Type, 50, "活动类型"),
		tools.MaxLen(a.Description, 1000, "活动描述"),
		tools.MaxLen(a.Location, 255, "活动地点"),
	); err != nil {
		return err
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return response.ErrInvalidRequest.WithTips("活动时间不能为空")
	}
	if !a.EndTime.After(a.StartTime) {
		return response.ErrInvalidRequest.WithTips("结束时间必须晚于开始时间")
	}
	if a.RegistrationDeadline != nil && a.RegistrationDeadline.After(a.EndTime) {
		return response.ErrInvalidRequest.WithTips("报名截止时间不能晚于结束时间")
	}
	if a.MaxParticipants < 0 {
		return response.ErrInvalidRequest.WithTips("人数上限不能为负数")
	}
	if a.EnableCrowdfunding {
		return tools.ValidAmount(a.CrowdfundingTarget, "众筹目标金额")
	}
	if a.CrowdfundingTarget.IsNegative() {
		return response.ErrInvalidRequest.WithTips("众筹目标金额不能为负数")
	}
	return nil
}
