package stats

import (
	"context"
	"encoding/json"
	"testing"

	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/test"

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

func register(t *testing.T, db *gorm.DB, a *model.Activity, u *model.User, status model.RegistrationStatus) {
	t.Helper()
	reg := &model.Registration{ActivityID: a.ID, UserID: u.ID, ParticipantName: u.NickName, Status: status}
	if status == model.RegistrationRegistered {
		reg.RegisteredKey = model.RegisteredKeyOf(a.ID, u.ID)
	}
	require.NoError(t, db.Create(reg).Error)
}

func rate(t *testing.T, db *gorm.DB, a *model.Activity, u *model.User, rating int) {
	t.Helper()
	require.NoError(t, db.Create(&model.Feedback{ActivityID: a.ID, UserID: u.ID, Rating: rating}).Error)
}

func support(t *testing.T, db *gorm.DB, a *model.Activity, u *model.User, amount string) {
	t.Helper()
	require.NoError(t, db.Create(&model.CrowdfundingSupport{
		ActivityID: a.ID, UserID: u.ID, Amount: decimal.RequireFromString(amount), PaymentStatus: model.PaymentCompleted,
	}).Error)
}

func TestGetActivityStatistics(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	other := test.CreateUser(t, db, model.RoleOrganizer)
	students := make([]*model.User, 4)
	for i := range students {
		students[i] = test.CreateUser(t, db, model.RoleStudent)
	}

	approved := test.CreateActivity(t, db, organizer)
	ongoing := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityOngoing))
	pending := test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
	test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityRejected))
	foreign := test.CreateActivity(t, db, other)

	register(t, db, approved, students[0], model.RegistrationRegistered)
	register(t, db, approved, students[1], model.RegistrationRegistered)
	register(t, db, approved, students[2], model.RegistrationCancelled)
	register(t, db, ongoing, students[0], model.RegistrationRegistered)
	register(t, db, pending, students[3], model.RegistrationRegistered)
	register(t, db, foreign, students[3], model.RegistrationRegistered)

	rate(t, db, approved, students[0], 4)
	rate(t, db, approved, students[1], 5)
	rate(t, db, ongoing, students[0], 3)
	rate(t, db, foreign, students[3], 1)

	result, err := svc.GetActivityStatistics(ctx, organizer.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.TotalActivities)
	assert.EqualValues(t, 3, result.TotalRegistrations)
	assert.Equal(t, 1.5, result.AverageRegistrationsPerActivity)
	assert.Equal(t, 3.75, result.AverageRating)

	empty := test.CreateUser(t, db, model.RoleOrganizer)
	result, err = svc.GetActivityStatistics(ctx, empty.StudentID)
	require.NoError(t, err)
	assert.Equal(t, &ActivityStatistics{}, result)

	_, err = svc.GetActivityStatistics(ctx, students[0].StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)
}

func TestGetCrowdfundingStatistics(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	student := test.CreateUser(t, db, model.RoleStudent)

	first := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"))
	second := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("300"), test.WithStatus(model.ActivityClosed))
	pending := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("50"), test.WithStatus(model.ActivityPendingAudit))
	test.CreateActivity(t, db, organizer)

	support(t, db, first, student, "30")
	support(t, db, first, student, "20")
	support(t, db, pending, student, "50")

	result, err := svc.GetCrowdfundingStatistics(ctx, organizer.StudentID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.CrowdfundingActivities)
	assert.True(t, result.TotalTarget.Equal(decimal.NewFromInt(400)), result.TotalTarget.String())
	assert.True(t, result.TotalRaised.Equal(decimal.NewFromInt(50)), result.TotalRaised.String())
	assert.EqualValues(t, 2, result.TotalSupports)
	assert.Equal(t, 12.5, result.CompletionRate)

	require.Len(t, result.Activities, 2)
	assert.Equal(t, first.ID, result.Activities[0].ActivityID)
	assert.Equal(t, 50.0, result.Activities[0].CompletionPercentage)
	assert.Equal(t, second.ID, result.Activities[1].ActivityID)
	assert.True(t, result.Activities[1].RaisedAmount.IsZero())
	assert.Zero(t, result.Activities[1].SupporterCount)

	empty := test.CreateUser(t, db, model.RoleOrganizer)
	result, err = svc.GetCrowdfundingStatistics(ctx, empty.StudentID)
	require.NoError(t, err)
	assert.Zero(t, result.CrowdfundingActivities)
	assert.True(t, result.TotalRaised.IsZero())
	assert.Zero(t, result.CompletionRate)
	assert.NotNil(t, result.Activities)
}

func TestGetAdminDashboard(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	admin := test.CreateUser(t, db, model.RoleAdmin)

	t.Run("没有任何数据", func(t *testing.T) {
		result, err := svc.GetAdminDashboard(ctx, admin.StudentID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.TotalUsers)
		assert.Zero(t, result.TotalActivities)
		assert.Zero(t, result.TotalRegistrations)
		assert.Zero(t, result.TotalFeedback)
		assert.Zero(t, result.PendingAuditActivities)
		assert.Zero(t, result.PendingFundProofs)
		assert.True(t, result.CrowdfundingTotal.IsZero())

		raw, err := json.Marshal(result)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "null")
		assert.NotContains(t, string(raw), "NaN")
	})

	t.Run("有数据", func(t *testing.T) {
		organizer := test.CreateUser(t, db, model.RoleOrganizer)
		student := test.CreateUser(t, db, model.RoleStudent)
		a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"))
		test.CreateActivity(t, db, organizer, test.WithStatus(model.ActivityPendingAudit))
		register(t, db, a, student, model.RegistrationRegistered)
		register(t, db, a, organizer, model.RegistrationCancelled)
		rate(t, db, a, student, 5)
		support(t, db, a, student, "12.5")
		support(t, db, a, organizer, "7.5")
		require.NoError(t, db.Create(&model.FundProof{
			ActivityID: a.ID, OrganizerID: organizer.ID, Amount: decimal.NewFromInt(1), Status: model.FundProofPendingAudit,
		}).Error)

		result, err := svc.GetAdminDashboard(ctx, admin.StudentID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, result.TotalUsers)
		assert.EqualValues(t, 2, result.TotalActivities)
		assert.EqualValues(t, 1, result.TotalRegistrations)
		assert.EqualValues(t, 1, result.TotalFeedback)
		assert.EqualValues(t, 1, result.PendingAuditActivities)
		assert.EqualValues(t, 1, result.PendingFundProofs)
		assert.True(t, result.CrowdfundingTotal.Equal(decimal.NewFromInt(20)), result.CrowdfundingTotal.String())

		_, err = svc.GetAdminDashboard(ctx, organizer.StudentID)
		assert.ErrorIs(t, err, response.ErrForbidden)
	})
}

func TestExportRegistrations(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	student := test.CreateUser(t, db, model.RoleStudent)
	a := test.CreateActivity(t, db, organizer)
	register(t, db, a, student, model.RegistrationRegistered)

	f, got, err := svc.ExportRegistrations(ctx, a.ID, organizer.StudentID)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, a.Title, got.Title)

	rows, err := f.GetRows(RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "学号", rows[0][1])
	assert.Equal(t, student.StudentID, rows[1][1])
	assert.Equal(t, string(model.RegistrationRegistered), rows[1][6])

	_, _, err = svc.ExportRegistrations(ctx, a.ID, student.StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)

	_, _, err = svc.ExportRegistrations(ctx, 9999, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrNotFound)
}
