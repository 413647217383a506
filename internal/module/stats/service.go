// Package stats 只读的统计汇总与导出
package stats

import (
	"context"
	"fmt"
	"math"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/crowdfunding"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	dir *identity.Directory
}

func NewService(db *gorm.DB, dir *identity.Directory) *Service {
	return &Service{db: db, dir: dir}
}

// ActivityStatistics 组织者已通过审核活动的报名与评分
type ActivityStatistics struct {
	TotalActivities                 int64   `json:"total_activities"`
	TotalRegistrations              int64   `json:"total_registrations"`
	AverageRegistrationsPerActivity float64 `json:"average_registrations_per_activity"`
	AverageRating                   float64 `json:"average_rating"`
}

type ActivityFunding struct {
	ActivityID           uint            `json:"activity_id"`
	Title                string          `json:"title"`
	TargetAmount         decimal.Decimal `json:"target_amount"`
	RaisedAmount         decimal.Decimal `json:"raised_amount"`
	SupporterCount       int64           `json:"supporter_count"`
	CompletionPercentage float64         `json:"completion_percentage"`
}

// CrowdfundingStatistics 组织者已通过审核的众筹活动汇总
type CrowdfundingStatistics struct {
	CrowdfundingActivities int64             `json:"crowdfunding_activities"`
	TotalTarget            decimal.Decimal   `json:"total_target"`
	TotalRaised            decimal.Decimal   `json:"total_raised"`
	TotalSupports          int64             `json:"total_supports"`
	CompletionRate         float64           `json:"completion_rate"`
	Activities             []ActivityFunding `json:"activities"`
}

// AdminDashboard 全站计数，没有数据时全部为 0
type AdminDashboard struct {
	TotalUsers             int64           `json:"total_users"`
	TotalActivities        int64           `json:"total_activities"`
	TotalRegistrations     int64           `json:"total_registrations"`
	TotalFeedback          int64           `json:"total_feedback"`
	CrowdfundingTotal      decimal.Decimal `json:"crowdfunding_total"`
	PendingAuditActivities int64           `json:"pending_audit_activities"`
	PendingFundProofs      int64           `json:"pending_fund_proofs"`
}

func (s *Service) GetActivityStatistics(ctx context.Context, organizerHandle string) (*ActivityStatistics, error) {
	organizer, err := s.requireRole(ctx, organizerHandle, model.RoleOrganizer, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	ids, err := selectPassedIDs(db, organizer.UserID, false)
	if err != nil {
		return nil, s.dbError("查询活动失败", err)
	}
	registrations, err := countRegistered(db, ids)
	if err != nil {
		return nil, s.dbError("统计报名失败", err)
	}
	averages, err := selectRatingAverages(db, ids)
	if err != nil {
		return nil, s.dbError("统计评分失败", err)
	}

	result := &ActivityStatistics{
		TotalActivities:    int64(len(ids)),
		TotalRegistrations: registrations,
		AverageRating:      round2(mean(averages)),
	}
	if result.TotalActivities > 0 {
		result.AverageRegistrationsPerActivity = round2(float64(registrations) / float64(result.TotalActivities))
	}
	return result, nil
}

func (s *Service) GetCrowdfundingStatistics(ctx context.Context, organizerHandle string) (*CrowdfundingStatistics, error) {
	organizer, err := s.requireRole(ctx, organizerHandle, model.RoleOrganizer, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	ids, err := selectPassedIDs(db, organizer.UserID, true)
	if err != nil {
		return nil, s.dbError("查询众筹活动失败", err)
	}
	rows, err := selectFunding(db, ids)
	if err != nil {
		return nil, s.dbError("统计众筹失败", err)
	}

	result := &CrowdfundingStatistics{
		CrowdfundingActivities: int64(len(rows)),
		TotalTarget:            decimal.Zero,
		TotalRaised:            decimal.Zero,
		Activities:             make([]ActivityFunding, 0, len(rows)),
	}
	for _, row := range rows {
		result.TotalTarget = result.TotalTarget.Add(row.Target)
		result.TotalRaised = result.TotalRaised.Add(row.Raised)
		result.TotalSupports += row.Supporters
		result.Activities = append(result.Activities, ActivityFunding{
			ActivityID:           row.ActivityID,
			Title:                row.Title,
			TargetAmount:         row.Target,
			RaisedAmount:         row.Raised,
			SupporterCount:       row.Supporters,
			CompletionPercentage: crowdfunding.Completion(row.Raised, row.Target),
		})
	}
	result.CompletionRate = crowdfunding.Completion(result.TotalRaised, result.TotalTarget)
	return result, nil
}

func (s *Service) GetAdminDashboard(ctx context.Context, adminHandle string) (*AdminDashboard, error) {
	if _, err := s.requireRole(ctx, adminHandle, model.RoleAdmin); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	result := &AdminDashboard{CrowdfundingTotal: decimal.Zero}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&result.TotalUsers, db.Model(&model.User{})},
		{&result.TotalActivities, db.Model(&model.Activity{})},
		{&result.TotalRegistrations, db.Model(&model.Registration{}).Where("status = ?", model.RegistrationRegistered)},
		{&result.TotalFeedback, db.Model(&model.Feedback{})},
		{&result.PendingAuditActivities, db.Model(&model.Activity{}).Where("status = ?", model.ActivityPendingAudit)},
		{&result.PendingFundProofs, db.Model(&model.FundProof{}).Where("status = ?", model.FundProofPendingAudit)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, s.dbError("统计全站数据失败", err)
		}
	}

	total, err := sumSupports(db)
	if err != nil {
		return nil, s.dbError("统计众筹总额失败", err)
	}
	result.CrowdfundingTotal = total
	return result, nil
}

const RosterSheet = "报名名单"

type rosterRow struct {
	ID              uint   `excel:"报名编号"`
	StudentID       string `excel:"学号"`
	NickName        string `excel:"昵称"`
	ParticipantName string `excel:"参与人"`
	ContactPhone    string `excel:"联系电话"`
	Remarks         string `excel:"备注"`
	Status          string `excel:"状态"`
	CreatedAt       string `excel:"报名时间"`
}

// ExportRegistrations 导出活动报名名单，所有者或管理员可用
func (s *Service) ExportRegistrations(ctx context.Context, activityID uint, callerHandle string) (*excelize.File, *model.Activity, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, nil, err
	}
	db := s.db.WithContext(ctx)

	var a model.Activity
	if err := db.First(&a, activityID).Error; err != nil {
		return nil, nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if err := identity.RequireOwnerOrAdmin(caller, a.OrganizerID); err != nil {
		return nil, nil, err
	}

	var regs []model.Registration
	if err := db.Preload("User").Where("activity_id = ?", activityID).Order("id ASC").Find(&regs).Error; err != nil {
		return nil, nil, s.dbError("查询报名名单失败", err)
	}
	rows := make([]rosterRow, 0, len(regs))
	for _, r := range regs {
		rows = append(rows, rosterRow{
			ID:              r.ID,
			StudentID:       r.User.StudentID,
			NickName:        r.User.NickName,
			ParticipantName: r.ParticipantName,
			ContactPhone:    r.ContactPhone,
			Remarks:         r.Remarks,
			Status:          string(r.Status),
			CreatedAt:       r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		_ = f.Close()
		return nil, nil, response.ErrServerInternal.WithOrigin(err)
	}
	if err := tools.ExportToExcel(f, RosterSheet, rows); err != nil {
		_ = f.Close()
		log.Error("生成报名名单失败", "error", err, "activity_id", activityID)
		return nil, nil, response.ErrServerInternal.WithOrigin(err)
	}
	return f, &a, nil
}

func (s *Service) requireRole(ctx context.Context, handle string, roles ...model.Role) (*identity.Identity, error) {
	caller, err := s.dir.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}
	if err := identity.RequireRole(caller, roles...); err != nil {
		return nil, err
	}
	return caller, nil
}

func (s *Service) dbError(msg string, err error) error {
	log.Error(msg, "error", err)
	return response.ErrDatabase.WithOrigin(fmt.Errorf("%s: %w", msg, err))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
