// Package crowdfunding 众筹账本：赞助、档位、完成度与经费凭证
package crowdfunding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campus-activity/internal/global/database"
	"campus-activity/internal/global/pictureBed"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/internal/module/identity"
	"campus-activity/tools"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProofStorage 经费凭证文件存储
type ProofStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, req pictureBed.PresignedUploadRequest) (*pictureBed.PresignedUploadResponse, error)
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)
}

type Service struct {
	db      *gorm.DB
	dir     *identity.Directory
	storage ProofStorage
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithStorage 未设置时凭证上传接口返回 ErrStorage
func WithStorage(storage ProofStorage) Option {
	return func(s *Service) { s.storage = storage }
}

func NewService(db *gorm.DB, dir *identity.Directory, opts ...Option) *Service {
	s := &Service{db: db, dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var hundred = decimal.NewFromInt(100)

// CrowdfundingDetails 众筹进度，完成度不封顶，可超过 100
type CrowdfundingDetails struct {
	ActivityID           uint            `json:"activity_id"`
	EnableCrowdfunding   bool            `json:"enable_crowdfunding"`
	TargetAmount         decimal.Decimal `json:"target_amount"`
	RaisedAmount         decimal.Decimal `json:"raised_amount"`
	SupporterCount       int64           `json:"supporter_count"`
	CompletionPercentage float64         `json:"completion_percentage"`
}

// Completion 完成百分比，保留两位小数，目标为 0 时为 0
func Completion(raised, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	return raised.Mul(hundred).Div(target).Round(2).InexactFloat64()
}

// Pledge 检查顺序：用户、活动存在、开启众筹、活动可赞助、金额为正、档位归属
// 不接入支付网关，赞助创建即为 COMPLETED
func (s *Service) Pledge(ctx context.Context, activityID uint, amount decimal.Decimal, tierID *uint, userHandle string) (*model.CrowdfundingSupport, error) {
	user, err := s.dir.Resolve(ctx, userHandle)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var a model.Activity
	if err := db.First(&a, activityID).Error; err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if !a.EnableCrowdfunding {
		return nil, response.ErrInvalidState.WithTips("活动未开启众筹")
	}
	if !a.EffectiveStatus(s.now()).Joinable() {
		return nil, response.ErrInvalidState.WithTips("活动当前不接受赞助")
	}
	if err := tools.ValidAmount(amount, "赞助金额"); err != nil {
		return nil, err
	}
	if tierID != nil {
		var tier model.CrowdfundingTier
		err := db.Where("id = ? AND activity_id = ?", *tierID, activityID).First(&tier).Error
		if err != nil {
			return nil, database.NotFoundOr(err, response.ErrInvalidRequest.WithTips("档位不属于该活动"))
		}
	}

	support := &model.CrowdfundingSupport{
		ActivityID:    activityID,
		UserID:        user.UserID,
		Amount:        amount.Round(2),
		TierID:        tierID,
		PaymentStatus: model.PaymentCompleted,
	}
	if err := db.Create(support).Error; err != nil {
		log.Error("创建赞助失败", "error", err, "activity_id", activityID, "user_id", user.UserID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	log.Info("赞助成功", "activity_id", activityID, "user_id", user.UserID, "amount", support.Amount.String())
	return support, nil
}

func (s *Service) GetCrowdfundingDetails(ctx context.Context, activityID uint) (*CrowdfundingDetails, error) {
	db := s.db.WithContext(ctx)
	var a model.Activity
	if err := db.First(&a, activityID).Error; err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}

	agg, err := sumSupports(db, activityID)
	if err != nil {
		log.Error("统计赞助金额失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &CrowdfundingDetails{
		ActivityID:           a.ID,
		EnableCrowdfunding:   a.EnableCrowdfunding,
		TargetAmount:         a.CrowdfundingTarget,
		RaisedAmount:         agg.Total,
		SupporterCount:       agg.Count,
		CompletionPercentage: Completion(agg.Total, a.CrowdfundingTarget),
	}, nil
}

// ListSupports 最新的赞助在前
func (s *Service) ListSupports(ctx context.Context, activityID uint) ([]model.CrowdfundingSupport, error) {
	var supports []model.CrowdfundingSupport
	err := s.db.WithContext(ctx).Preload("User").
		Where("activity_id = ?", activityID).
		Order("id DESC").
		Find(&supports).Error
	if err != nil {
		log.Error("获取赞助列表失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return supports, nil
}

type supportAgg struct {
	Total decimal.Decimal
	Count int64
}

func sumSupports(db *gorm.DB, activityID uint) (supportAgg, error) {
	var agg supportAgg
	err := db.Model(&model.CrowdfundingSupport{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("activity_id = ?", activityID).
		Scan(&agg).Error
	return agg, err
}

// TierKind 档位筛选
type TierKind string

const (
	TierAll    TierKind = ""
	TierPreset TierKind = "preset"
	TierCustom TierKind = "custom"
)

// GetTiers 按 display_order 升序
func (s *Service) GetTiers(ctx context.Context, activityID uint, kind TierKind) ([]model.CrowdfundingTier, error) {
	query := s.db.WithContext(ctx).Where("activity_id = ?", activityID)
	switch kind {
	case TierPreset:
		query = query.Where("is_preset = ?", true)
	case TierCustom:
		query = query.Where("is_preset = ?", false)
	case TierAll:
	default:
		return nil, response.ErrInvalidRequest.WithTips("未知的档位类型", string(kind))
	}

	var tiers []model.CrowdfundingTier
	if err := query.Order("display_order ASC, id ASC").Find(&tiers).Error; err != nil {
		log.Error("获取档位失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return tiers, nil
}

func (s *Service) GetTiersByActivityID(ctx context.Context, activityID uint) ([]model.CrowdfundingTier, error) {
	return s.GetTiers(ctx, activityID, TierAll)
}

func (s *Service) GetPresetTiers(ctx context.Context, activityID uint) ([]model.CrowdfundingTier, error) {
	return s.GetTiers(ctx, activityID, TierPreset)
}

func (s *Service) GetCustomTiers(ctx context.Context, activityID uint) ([]model.CrowdfundingTier, error) {
	return s.GetTiers(ctx, activityID, TierCustom)
}

type TierData struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	IsPreset     bool            `json:"is_preset"`
	DisplayOrder int             `json:"display_order"`
}

// CreateTier 活动所有者或管理员为众筹活动添加档位
func (s *Service) CreateTier(ctx context.Context, activityID uint, data TierData, callerHandle string) (*model.CrowdfundingTier, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedActivity(ctx, activityID, caller)
	if err != nil {
		return nil, err
	}
	if !a.EnableCrowdfunding {
		return nil, response.ErrInvalidState.WithTips("活动未开启众筹")
	}
	data.Name = strings.TrimSpace(data.Name)
	if data.Name == "" {
		return nil, response.ErrInvalidRequest.WithTips("档位名称不能为空")
	}
	if err := tools.ValidAmount(data.Amount, "档位金额"); err != nil {
		return nil, err
	}
	if err := tools.MaxLens(
		tools.MaxLen(data.Name, 50, "档位名称"),
		tools.MaxLen(data.Description, 255, "档位描述"),
	); err != nil {
		return nil, err
	}

	tier := &model.CrowdfundingTier{
		ActivityID:   activityID,
		Name:         data.Name,
		Amount:       data.Amount.Round(2),
		Description:  data.Description,
		IsPreset:     data.IsPreset,
		DisplayOrder: data.DisplayOrder,
	}
	if err := s.db.WithContext(ctx).Create(tier).Error; err != nil {
		log.Error("创建档位失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return tier, nil
}

type FundProofData struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	FileKey     string          `json:"file_key"`
}

// SubmitFundProof 组织者提交经费使用凭证，等待管理员审核
func (s *Service) SubmitFundProof(ctx context.Context, activityID uint, data FundProofData, callerHandle string) (*model.FundProof, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, err
	}
	a, err := s.ownedActivity(ctx, activityID, caller)
	if err != nil {
		return nil, err
	}
	if !a.EnableCrowdfunding {
		return nil, response.ErrInvalidState.WithTips("活动未开启众筹")
	}
	if err := tools.ValidAmount(data.Amount, "凭证金额"); err != nil {
		return nil, err
	}
	if err := tools.MaxLens(
		tools.MaxLen(data.Description, 500, "凭证说明"),
		tools.MaxLen(data.FileKey, 255, "文件标识"),
	); err != nil {
		return nil, err
	}

	proof := &model.FundProof{
		ActivityID:  activityID,
		OrganizerID: a.OrganizerID,
		Amount:      data.Amount.Round(2),
		Description: data.Description,
		FileKey:     data.FileKey,
		Status:      model.FundProofPendingAudit,
	}
	if err := s.db.WithContext(ctx).Create(proof).Error; err != nil {
		log.Error("提交经费凭证失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	log.Info("经费凭证已提交", "activity_id", activityID, "proof_id", proof.ID)
	return proof, nil
}

func (s *Service) ListFundProofs(ctx context.Context, activityID uint) ([]model.FundProof, error) {
	var proofs []model.FundProof
	if err := s.db.WithContext(ctx).Where("activity_id = ?", activityID).Order("id ASC").Find(&proofs).Error; err != nil {
		log.Error("获取经费凭证失败", "error", err, "activity_id", activityID)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return proofs, nil
}

// ProofUploadURL 为凭证文件生成直传地址，返回的 file_key 随 SubmitFundProof 提交
func (s *Service) ProofUploadURL(ctx context.Context, activityID uint, filename, contentType, callerHandle string) (*pictureBed.PresignedUploadResponse, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedActivity(ctx, activityID, caller); err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, response.ErrStorage.WithTips("未配置对象存储")
	}
	if filename == "" {
		return nil, response.ErrInvalidRequest.WithTips("文件名不能为空")
	}

	resp, err := s.storage.GeneratePresignedUploadURL(ctx, pictureBed.PresignedUploadRequest{
		Dir:         fmt.Sprintf("proofs/%d", activityID),
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		log.Error("生成上传地址失败", "error", err, "activity_id", activityID)
		return nil, response.ErrStorage.WithOrigin(err)
	}
	return resp, nil
}

// ProofDownloadURL 凭证所属组织者或管理员可下载
func (s *Service) ProofDownloadURL(ctx context.Context, proofID uint, callerHandle string) (string, error) {
	caller, err := s.dir.Resolve(ctx, callerHandle)
	if err != nil {
		return "", err
	}
	var proof model.FundProof
	if err := s.db.WithContext(ctx).First(&proof, proofID).Error; err != nil {
		return "", database.NotFoundOr(err, response.ErrNotFound.WithTips("凭证不存在"))
	}
	if err := identity.RequireOwnerOrAdmin(caller, proof.OrganizerID); err != nil {
		return "", err
	}
	if proof.FileKey == "" {
		return "", response.ErrNotFound.WithTips("凭证未上传文件")
	}
	if s.storage == nil {
		return "", response.ErrStorage.WithTips("未配置对象存储")
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, proof.FileKey, 0)
	if err != nil {
		log.Error("生成下载地址失败", "error", err, "proof_id", proofID)
		return "", response.ErrStorage.WithOrigin(err)
	}
	return url, nil
}

// LockProof 在事务内锁定凭证行
func LockProof(tx *gorm.DB, id uint) (*model.FundProof, error) {
	var proof model.FundProof
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&proof, id).Error
	if err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("凭证不存在"))
	}
	return &proof, nil
}

// TransitionProof 只允许从待审核迁出，必须在调用方事务内执行
func TransitionProof(tx *gorm.DB, id uint, to model.FundProofStatus) error {
	result := tx.Model(&model.FundProof{}).
		Where("id = ? AND status = ?", id, model.FundProofPendingAudit).
		Update("status", to)
	if result.Error != nil {
		return response.ErrDatabase.WithOrigin(result.Error)
	}
	if result.RowsAffected != 1 {
		return response.ErrInvalidState.WithTips("凭证不在待审核状态")
	}
	return nil
}

func (s *Service) ownedActivity(ctx context.Context, activityID uint, caller *identity.Identity) (*model.Activity, error) {
	var a model.Activity
	if err := s.db.WithContext(ctx).First(&a, activityID).Error; err != nil {
		return nil, database.NotFoundOr(err, response.ErrNotFound.WithTips("活动不存在"))
	}
	if err := identity.RequireOwnerOrAdmin(caller, a.OrganizerID); err != nil {
		log.Warn("非活动所有者", "activity_id", activityID, "student_id", caller.StudentID)
		return nil, err
	}
	return &a, nil
}
