package stats

import (
	"campus-activity/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// passedActivities 组织者已通过审核的活动
func passedActivities(db *gorm.DB, organizerID uint) *gorm.DB {
	return db.Model(&model.Activity{}).
		Where("organizer_id = ? AND status IN ?", organizerID, model.AuditPassedStatuses)
}

func selectPassedIDs(db *gorm.DB, organizerID uint, crowdfundingOnly bool) ([]uint, error) {
	query := passedActivities(db, organizerID)
	if crowdfundingOnly {
		query = query.Where("enable_crowdfunding = ?", true)
	}
	var ids []uint
	err := query.Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func countRegistered(db *gorm.DB, activityIDs []uint) (int64, error) {
	var n int64
	query := db.Model(&model.Registration{}).Where("status = ?", model.RegistrationRegistered)
	if activityIDs != nil {
		if len(activityIDs) == 0 {
			return 0, nil
		}
		query = query.Where("activity_id IN ?", activityIDs)
	}
	err := query.Count(&n).Error
	return n, err
}

// selectRatingAverages 每个活动的平均评分，无评价的活动不出现
func selectRatingAverages(db *gorm.DB, activityIDs []uint) ([]float64, error) {
	var averages []float64
	if len(activityIDs) == 0 {
		return averages, nil
	}
	err := db.Model(&model.Feedback{}).
		Select("AVG(rating)").
		Where("activity_id IN ?", activityIDs).
		Group("activity_id").
		Pluck("AVG(rating)", &averages).Error
	return averages, err
}

type fundingRow struct {
	ActivityID uint
	Title      string
	Target     decimal.Decimal
	Raised     decimal.Decimal
	Supporters int64
}

// selectFunding 每个众筹活动的目标、已筹金额与赞助次数
func selectFunding(db *gorm.DB, activityIDs []uint) ([]fundingRow, error) {
	var rows []fundingRow
	if len(activityIDs) == 0 {
		return rows, nil
	}
	supports := db.Model(&model.CrowdfundingSupport{}).
		Select("activity_id, COALESCE(SUM(amount), 0) AS raised, COUNT(*) AS supporters").
		Group("activity_id")
	err := db.Model(&model.Activity{}).
		Select("activity.id AS activity_id, activity.title AS title, activity.crowdfunding_target AS target, "+
			"COALESCE(s.raised, 0) AS raised, COALESCE(s.supporters, 0) AS supporters").
		Joins("LEFT JOIN (?) AS s ON s.activity_id = activity.id", supports).
		Where("activity.id IN ?", activityIDs).
		Order("activity.id ASC").
		Scan(&rows).Error
	return rows, err
}

func sumSupports(db *gorm.DB) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Model(&model.CrowdfundingSupport{}).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}
