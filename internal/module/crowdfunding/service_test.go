package crowdfunding

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"campus-activity/internal/global/pictureBed"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/test"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStorage struct {
	err     error
	lastReq pictureBed.PresignedUploadRequest
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, req pictureBed.PresignedUploadRequest) (*pictureBed.PresignedUploadResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastReq = req
	return &pictureBed.PresignedUploadResponse{UploadURL: "https://s3.local/upload", FileKey: req.Dir + "/1.png", Method: "PUT"}, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/" + key, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()
	db := test.NewDB(t)
	opts = append([]Option{WithClock(test.Clock)}, opts...)
	return NewService(db, identity.NewDirectory(db, nil), opts...), db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestPledge(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	student := test.CreateUser(t, db, model.RoleStudent)
	funded := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("1000"))

	t.Run("赞助即完成", func(t *testing.T) {
		support, err := svc.Pledge(ctx, funded.ID, dec("88.50"), nil, student.StudentID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentCompleted, support.PaymentStatus)
		assert.True(t, support.Amount.Equal(dec("88.5")))
	})

	t.Run("金额为 0", func(t *testing.T) {
		_, err := svc.Pledge(ctx, funded.ID, decimal.Zero, nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidRequest)
	})

	t.Run("超过两位小数的金额", func(t *testing.T) {
		_, err := svc.Pledge(ctx, funded.ID, dec("0.004"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidRequest)

		var zero int64
		require.NoError(t, db.Model(&model.CrowdfundingSupport{}).Where("amount <= 0").Count(&zero).Error)
		assert.Zero(t, zero)
	})

	t.Run("负数金额", func(t *testing.T) {
		_, err := svc.Pledge(ctx, funded.ID, dec("-1"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidRequest)
	})

	t.Run("未开启众筹", func(t *testing.T) {
		plain := test.CreateActivity(t, db, organizer)
		_, err := svc.Pledge(ctx, plain.ID, dec("10"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidState)
	})

	t.Run("未开启众筹优先于金额校验", func(t *testing.T) {
		plain := test.CreateActivity(t, db, organizer)
		_, err := svc.Pledge(ctx, plain.ID, decimal.Zero, nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidState)
	})

	t.Run("待审核活动不接受赞助", func(t *testing.T) {
		pending := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"), test.WithStatus(model.ActivityPendingAudit))
		_, err := svc.Pledge(ctx, pending.ID, dec("10"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidState)
	})

	t.Run("已结束活动不接受赞助", func(t *testing.T) {
		closed := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"),
			test.WithTimes(test.Now.Add(-3*time.Hour), test.Now.Add(-time.Hour)))
		_, err := svc.Pledge(ctx, closed.ID, dec("10"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidState)
	})

	t.Run("活动不存在", func(t *testing.T) {
		_, err := svc.Pledge(ctx, 9999, dec("10"), nil, student.StudentID)
		assert.ErrorIs(t, err, response.ErrNotFound)
	})

	t.Run("未知用户", func(t *testing.T) {
		_, err := svc.Pledge(ctx, funded.ID, dec("10"), nil, "ghost")
		assert.ErrorIs(t, err, response.ErrUnauthorized)
	})

	t.Run("档位必须属于该活动", func(t *testing.T) {
		other := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("100"))
		tier, err := svc.CreateTier(ctx, other.ID, TierData{Name: "铜", Amount: dec("10")}, organizer.StudentID)
		require.NoError(t, err)

		_, err = svc.Pledge(ctx, funded.ID, dec("10"), &tier.ID, student.StudentID)
		assert.ErrorIs(t, err, response.ErrInvalidRequest)

		support, err := svc.Pledge(ctx, other.ID, dec("10"), &tier.ID, student.StudentID)
		require.NoError(t, err)
		assert.Equal(t, tier.ID, *support.TierID)
	})
}

func TestGetCrowdfundingDetails(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("200"))

	details, err := svc.GetCrowdfundingDetails(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, details.RaisedAmount.IsZero())
	assert.Zero(t, details.SupporterCount)
	assert.Zero(t, details.CompletionPercentage)

	amounts := []string{"50", "25.5", "0.25", "100", "74.25"}
	var wg sync.WaitGroup
	for _, amount := range amounts {
		user := test.CreateUser(t, db, model.RoleStudent)
		wg.Add(1)
		go func(handle, amount string) {
			defer wg.Done()
			_, err := svc.Pledge(ctx, a.ID, dec(amount), nil, handle)
			assert.NoError(t, err)
		}(user.StudentID, amount)
	}
	wg.Wait()

	details, err = svc.GetCrowdfundingDetails(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, details.RaisedAmount.Equal(dec("250")), details.RaisedAmount.String())
	assert.EqualValues(t, len(amounts), details.SupporterCount)
	// 不封顶
	assert.Equal(t, 125.0, details.CompletionPercentage)
	assert.True(t, details.TargetAmount.Equal(dec("200")))

	var rows []model.CrowdfundingSupport
	require.NoError(t, db.Where("activity_id = ?", a.ID).Find(&rows).Error)
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Amount)
	}
	assert.True(t, sum.Equal(details.RaisedAmount))

	_, err = svc.GetCrowdfundingDetails(ctx, 9999)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestCompletion(t *testing.T) {
	assert.Zero(t, Completion(dec("10"), decimal.Zero))
	assert.Equal(t, 33.33, Completion(dec("1"), dec("3")))
	assert.Equal(t, 150.0, Completion(dec("150"), dec("100")))
}

func TestTiers(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	other := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("1000"))

	for _, data := range []TierData{
		{Name: "金", Amount: dec("100"), IsPreset: true, DisplayOrder: 3},
		{Name: "铜", Amount: dec("10"), IsPreset: true, DisplayOrder: 1},
		{Name: "自定义", Amount: dec("1"), DisplayOrder: 2},
	} {
		_, err := svc.CreateTier(ctx, a.ID, data, organizer.StudentID)
		require.NoError(t, err)
	}

	all, err := svc.GetTiersByActivityID(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"铜", "自定义", "金"}, []string{all[0].Name, all[1].Name, all[2].Name})

	preset, err := svc.GetPresetTiers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, preset, 2)
	assert.Equal(t, "铜", preset[0].Name)

	custom, err := svc.GetCustomTiers(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, custom, 1)

	_, err = svc.GetTiers(ctx, a.ID, TierKind("vip"))
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.CreateTier(ctx, a.ID, TierData{Name: "银", Amount: dec("50")}, other.StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)

	_, err = svc.CreateTier(ctx, a.ID, TierData{Name: "", Amount: dec("50")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.CreateTier(ctx, a.ID, TierData{Name: "银", Amount: dec("49.999")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.CreateTier(ctx, a.ID, TierData{Name: strings.Repeat("银", 51), Amount: dec("50")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	plain := test.CreateActivity(t, db, organizer)
	_, err = svc.CreateTier(ctx, plain.ID, TierData{Name: "银", Amount: dec("50")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidState)
}

func TestFundProof(t *testing.T) {
	storage := &fakeStorage{}
	svc, db := newTestService(t, WithStorage(storage))
	ctx := context.Background()
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	other := test.CreateUser(t, db, model.RoleOrganizer)
	admin := test.CreateUser(t, db, model.RoleAdmin)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("1000"))

	upload, err := svc.ProofUploadURL(ctx, a.ID, "invoice.png", "image/png", organizer.StudentID)
	require.NoError(t, err)
	assert.Equal(t, "invoice.png", storage.lastReq.Filename)

	proof, err := svc.SubmitFundProof(ctx, a.ID, FundProofData{Amount: dec("300"), FileKey: upload.FileKey}, organizer.StudentID)
	require.NoError(t, err)
	assert.Equal(t, model.FundProofPendingAudit, proof.Status)
	assert.Equal(t, organizer.ID, proof.OrganizerID)

	_, err = svc.SubmitFundProof(ctx, a.ID, FundProofData{Amount: dec("0")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.SubmitFundProof(ctx, a.ID, FundProofData{Amount: dec("0.001")}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.SubmitFundProof(ctx, a.ID, FundProofData{Amount: dec("1"), Description: strings.Repeat("票", 501)}, organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrInvalidRequest)

	_, err = svc.SubmitFundProof(ctx, a.ID, FundProofData{Amount: dec("1")}, other.StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)

	url, err := svc.ProofDownloadURL(ctx, proof.ID, admin.StudentID)
	require.NoError(t, err)
	assert.Contains(t, url, upload.FileKey)

	_, err = svc.ProofDownloadURL(ctx, proof.ID, other.StudentID)
	assert.ErrorIs(t, err, response.ErrForbidden)

	proofs, err := svc.ListFundProofs(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, proofs, 1)

	storage.err = errors.New("s3 down")
	_, err = svc.ProofUploadURL(ctx, a.ID, "invoice.png", "image/png", organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrStorage)
}

func TestProofUploadWithoutStorage(t *testing.T) {
	svc, db := newTestService(t)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("1000"))

	_, err := svc.ProofUploadURL(context.Background(), a.ID, "invoice.png", "", organizer.StudentID)
	assert.ErrorIs(t, err, response.ErrStorage)
}

func TestTransitionProof(t *testing.T) {
	_, db := newTestService(t)
	organizer := test.CreateUser(t, db, model.RoleOrganizer)
	a := test.CreateActivity(t, db, organizer, test.WithCrowdfunding("1000"))
	proof := &model.FundProof{ActivityID: a.ID, OrganizerID: organizer.ID, Amount: dec("1"), Status: model.FundProofPendingAudit}
	require.NoError(t, db.Create(proof).Error)

	require.NoError(t, TransitionProof(db, proof.ID, model.FundProofApproved))
	assert.ErrorIs(t, TransitionProof(db, proof.ID, model.FundProofRejected), response.ErrInvalidState)

	_, err := LockProof(db, 9999)
	assert.ErrorIs(t, err, response.ErrNotFound)
}
