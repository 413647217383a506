package test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"campus-activity/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Now 测试统一使用的“当前时间”
var Now = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// Clock 返回固定时间
func Clock() time.Time {
	return Now
}

// CreateUser 创建指定角色的用户，学号自动生成
func CreateUser(t *testing.T, db *gorm.DB, role model.Role) *model.User {
	t.Helper()
	n := seq.Add(1)
	u := &model.User{
		StudentID: fmt.Sprintf("2026%05d", n),
		Password:  "-",
		RoleID:    role,
		NickName:  fmt.Sprintf("user%d", n),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// ActivityOption 调整测试活动字段
type ActivityOption func(a *model.Activity)

func WithStatus(s model.ActivityStatus) ActivityOption {
	return func(a *model.Activity) { a.Status = s }
}

func WithCapacity(n int) ActivityOption {
	return func(a *model.Activity) { a.MaxParticipants = n }
}

func WithCrowdfunding(target string) ActivityOption {
	return func(a *model.Activity) {
		a.EnableCrowdfunding = true
		a.CrowdfundingTarget = decimal.RequireFromString(target)
	}
}

func WithDeadline(d time.Time) ActivityOption {
	return func(a *model.Activity) { a.RegistrationDeadline = &d }
}

func WithTimes(start, end time.Time) ActivityOption {
	return func(a *model.Activity) {
		a.StartTime = start
		a.EndTime = end
	}
}

// CreateActivity 直接落库一个活动，默认已审核通过、一周后开始
func CreateActivity(t *testing.T, db *gorm.DB, organizer *model.User, opts ...ActivityOption) *model.Activity {
	t.Helper()
	a := &model.Activity{
		OrganizerID: organizer.ID,
		Title:       fmt.Sprintf("activity-%d", seq.Add(1)),
		Type:        "讲座",
		StartTime:   Now.Add(7 * 24 * time.Hour),
		EndTime:     Now.Add(7*24*time.Hour + 2*time.Hour),
		Location:    "图书馆报告厅",
		Status:      model.ActivityApproved,
	}
	for _, opt := range opts {
		opt(a)
	}
	require.NoError(t, db.Create(a).Error)
	return a
}
