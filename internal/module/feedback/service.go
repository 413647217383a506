// Package feedback 报名用户对活动的评分
package feedback

import (
	"context"
	"strings"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"gorm.io/gorm"
)

const (
	minRating = 1
	maxRating = 5
)

type Service struct {
	db  *gorm.DB
	dir *identity.Directory
}

func NewService(db *gorm.DB, dir *identity.Directory) *Service {
	return &Service{db: db, dir: dir}
}

type FeedbackData struct {
	Rating  int    `json:"rating"`
	Content string `json:"content"`
}

// Summary 活动评分汇总
type Summary struct {
	Count         int64            `json:"count"`
	AverageRating float64          `json:"average_rating"`
	Feedbacks     []model.Feedback `json:"feedbacks"`
}

// Submit 每个有效报名用户对同一活动只能评价一次
func (s *Service) Submit(ctx context.Context, activityID uint, data FeedbackData, userHandle string) (*model.Feedback, error) {
	user, err := s.dir.Resolve(ctx, userHandle)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var a model.Activity
	if err := db.Select("id").First(&a, activityID).Error; err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if data.Rating < minRating || data.Rating > maxRating {
		return nil, response.ErrInvalidRequest.WithTips("评分必须在 1 到 5 之间")
	}
	if err := tools.MaxLen(strings.TrimSpace(data.Content), 500, "评价内容"); err != nil {
		return nil, err
	}

	var registered int64
	err = db.Model(&model.Registration{}).
		Where("activity_id = ? AND user_id = ? AND status = ?", activityID, user.UserID, model.RegistrationRegistered).
		Count(&registered).Error
	if err != nil {
		log.Error("查询报名记录失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if registered == 0 {
		return nil, response.ErrForbidden.WithTips("只有报名用户可以评价")
	}

	fb := &model.Feedback{
		ActivityID: activityID,
		UserID:     user.UserID,
		Rating:     data.Rating,
		Content:    strings.TrimSpace(data.Content),
	}
	if err := db.Create(fb).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, response.ErrConflict.WithTips("已评价过该活动")
		}
		log.Error("保存评价失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	log.Info("评价成功", "activity_id", activityID, "user_id", user.UserID, "rating", fb.Rating)
	return fb, nil
}

func (s *Service) List(ctx context.Context, activityID uint) (*Summary, error) {
	var feedbacks []model.Feedback
	if err := s.db.WithContext(ctx).Where("activity_id = ?", activityID).Order("id DESC").Find(&feedbacks).Error; err != nil {
		log.Error("获取评价失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	summary := &Summary{Count: int64(len(feedbacks)), Feedbacks: feedbacks}
	if len(feedbacks) > 0 {
		total := 0
		for _, fb := range feedbacks {
			total += fb.Rating
		}
		summary.AverageRating = float64(total) / float64(len(feedbacks))
	}
	return summary, nil
}
