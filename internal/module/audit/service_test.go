package audit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/test"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := test.NewDB(t)
	return NewService(db, identity.NewDirectory(db, nil)), db
}

func auditLogCount(t *testing.T, db *gorm.DB, targetID uint, auditType model.AuditType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).
		Where("target_id = ? AND audit_type = ?", targetID, auditType).
		Count(&n).Error)
	return n
}

func TestAuditActivity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	admin := test.CreateUser(t, db, model.RoleAdmin)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)

	t.Run("通过", func(t *testing.T) {
		a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		got, err := svc.AuditActivity(ctx, a.ID, true, "", admin.StudentID)
		require.NoError(t, err)
		assert.Equal(t, model.ActivityApproved, got.Status)

		var logs []model.AuditLog
		require.NoError(t, db.Where("target_id = ?", a.ID).Find(&logs).Error)
		require.Len(t, logs, 1)
		assert.Equal(t, admin.ID, logs[0].AuditorID)
		assert.Equal(t, model.AuditTypeActivity, logs[0].AuditType)
		assert.Equal(t, model.AuditApproved, logs[0].AuditStatus)
	})

	t.Run("驳回", func(t *testing.T) {
		a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		got, err := svc.AuditActivity(ctx, a.ID, false, "  时间冲突 ", admin.StudentID)
		require.NoError(t, err)
		assert.Equal(t, model.ActivityRejected, got.Status)

		var l model.AuditLog
		require.NoError(t, db.Where("target_id = ? AND audit_type = ?", a.ID, model.AuditTypeActivity).First(&l).Error)
		assert.Equal(t, "时间冲突", l.Reason)
		assert.Equal(t, model.AuditRejected, l.AuditStatus)
	})

	t.Run("驳回必须有原因", func(t *testing.T) {
		a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		for _, reason := range []string{"", "   "} {
			_, err := svc.AuditActivity(ctx, a.ID, false, reason, admin.StudentID)
			assert.ErrorIs(t, err, response.ErrInvalidRequest)
		}

		var stored model.Activity
		require.NoError(t, db.First(&stored, a.ID).Error)
		assert.Equal(t, model.ActivityPendingAudit, stored.Status)
		assert.Zero(t, auditLogCount(t, db, a.ID, model.AuditTypeActivity))
	})

	t.Run("原因过长", func(t *testing.T) {
		a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		_, err := svc.AuditActivity(ctx, a.ID, false, strings.Repeat("因", 501), admin.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidRequest)

		var stored model.Activity
		require.NoError(t, db.First(&stored, a.ID).Error)
		assert.Equal(t, model.ActivityPendingAudit, stored.Status)
		assert.Zero(t, auditLogCount(t, db, a.ID, model.AuditTypeActivity))

		_, err = svc.AuditActivity(ctx, a.ID, false, strings.Repeat("因", 500), admin.StudentID)
		require.NoError(t, err)
	})

	t.Run("非待审核状态", func(t *testing.T) {
		for _, status := range []model.ActivityStatus{
			model.ActivityApproved, model.ActivityRejected, model.ActivityOngoing, model.ActivityClosed,
		} {
			a := test.CreateActivity(t, db, organizer, test.WithStatus(status))
			_, err := svc.AuditActivity(ctx, a.ID, true, "", admin.StudentID)
			assert.ErrorIs(t, err, response.ErrInvalidState, status)
			_, err = svc.AuditActivity(ctx, a.ID, false, "重复审核", admin.StudentID)
			assert.ErrorIs(t, err, response.ErrInvalidState, status)

			var stored model.Activity
			require.NoError(t, db.First(&stored, a.ID).Error)
			assert.Equal(t, status, stored.Status)
			assert.Zero(t, auditLogCount(t, db, a.ID, model.AuditTypeActivity))
		}
	})

	t.Run("只有管理员可以审核", func(t *testing.T) {
		a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		student := test.CreateUser(t, db, model.RoleStudent)
		for _, handle := range []string{organizer.StudentID, student.StudentID} {
			_, err := svc.AuditActivity(ctx, a.ID, true, "", handle)
			assert.ErrorIs(t, err, response.ErrForbidden)
		}
		_, err := svc.AuditActivity(ctx, a.ID, true, "", "ghost")
		assert.ErrorIs(t, err, response.ErrUnauthorized)
		assert.Zero(t, auditLogCount(t, db, a.ID, model.AuditTypeActivity))
	})

	t.Run("活动不存在", func(t *testing.T) {
		_, err := svc.AuditActivity(ctx, 9999, true, "", admin.StudentID)
		assert.ErrorIs(t, err, response.ErrNotFound)
	})
}

func TestAuditActivityConcurrent(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	admin := test.CreateUser(t, db, model.RoleAdmin)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.AuditActivity(ctx, a.ID, i%2 == 0, "并发审核", admin.StudentID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, response.ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, auditLogCount(t, db, a.ID, model.AuditTypeActivity))

	var stored model.Activity
	require.NoError(t, db.First(&stored, a.ID).Error)
	var l model.AuditLog
	require.NoError(t, db.Where("target_id = ?", a.ID).First(&l).Error)
	assert.Equal(t, string(l.AuditStatus), string(stored.Status))
}

func TestAuditFundProof(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	admin := test.CreateUser(t, db, model.RoleAdmin)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"))

	newProof := func() *model.FundProof {
		p := &model.FundProof{
			ActivityID:  a.ID,
			OrganizerID: organizer.ID,
			Amount:      decimal.NewFromInt(20),
			Status:      model.FundProofPendingAudit,
		}
		require.NoError(t, db.Create(p).Error)
		return p
	}

	p := newProof()
	got, err := svc.AuditFundProof(ctx, p.ID, true, "", admin.StudentID)
	require.NoError(t, err)
	assert.Equal(t, model.FundProofApproved, got.Status)
	assert.EqualValues(t, 1, auditLogCount(t, db, p.ID, model.AuditTypeFundProof))

	_, err = svc.AuditFundProof(ctx, p.ID, false, "重复", admin.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidState)
	assert.EqualValues(t, 1, auditLogCount(t, db, p.ID, model.AuditTypeFundProof))

	p = newProof()
	_, err = svc.AuditFundProof(ctx, p.ID, false, "", admin.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)
	_, err = svc.AuditFundProof(ctx, p.ID, true, strings.Repeat("因", 501), admin.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)
	_, err = svc.AuditFundProof(ctx, p.ID, false, "票据不清晰", organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)

	got, err = svc.AuditFundProof(ctx, p.ID, false, "票据不清晰", admin.StudentID)
	require.NoError(t, err)
	assert.Equal(t, model.FundProofRejected, got.Status)

	_, err = svc.AuditFundProof(ctx, 9999, true, "", admin.StudentID)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestGetActivityAuditLogs(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	admin := test.CreateUser(t, db, model.RoleAdmin)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer)

	for _, reason := range []string{"第一次", "第二次", "第三次"} {
		require.NoError(t, db.Create(&model.AuditLog{
			AuditorID: admin.ID, TargetID: a.ID, AuditType: model.AuditTypeActivity,
			AuditStatus: model.AuditRejected, Reason: reason,
		}).Error)
	}
	// 同 id 的凭证审核记录不应混入
	require.NoError(t, db.Create(&model.AuditLog{
		AuditorID: admin.ID, TargetID: a.ID, AuditType: model.AuditTypeFundProof, AuditStatus: model.AuditApproved,
	}).Error)

	logs, total, err := svc.GetActivityAuditLogs(ctx, a.ID, 1, 10, false)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, logs, 3)
	assert.Equal(t, "第一次", logs[0].Reason)
	assert.Equal(t, "第三次", logs[2].Reason)

	logs, _, err = svc.GetActivityAuditLogs(ctx, a.ID, 1, 2, true)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "第三次", logs[0].Reason)

	logs, _, err = svc.GetActivityAuditLogs(ctx, a.ID, 2, 2, false)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "第三次", logs[0].Reason)

	_, _, err = svc.GetActivityAuditLogs(ctx, 9999, 1, 10, false)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestAuditHandler(t *testing.T) {
	svc, db := newTestService(t)
	service = svc
	admin := test.CreateUser(t, db, model.RoleAdmin)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
	params := gin.Params{{Key: "id", Value: test.ID(a.ID)}}

	resp := test.DoRequest(t, AuditActivity, test.Request{User: admin, Params: params, Body: gin.H{"reason": "缺少字段"}})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, AuditActivity, test.Request{User: admin, Params: params, Body: gin.H{"approve": false}})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, AuditActivity, test.Request{User: admin, Params: params, Body: gin.H{"approve": true}})
	test.NoError(t, resp)

	resp = test.DoRequest(t, GetActivityAuditLogs, test.Request{Method: http.MethodGet, User: organizer, Params: params})
	test.NoError(t, resp)
	assert.EqualValues(t, 1, resp.Data.(map[string]any)["total"])
}
