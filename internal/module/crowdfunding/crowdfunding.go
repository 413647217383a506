package crowdfunding

import (
	"strconv"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PledgeReq struct {
	Amount decimal.Decimal `json:"amount"`
	TierID *uint           `json:"tier_id"`
}

func Pledge(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req PledgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定赞助请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	support, err := service.Pledge(c.Request.Context(), activityID, req.Amount, req.TierID, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, support)
}

func GetDetails(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	details, err := service.GetCrowdfundingDetails(c.Request.Context(), activityID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, details)
}

func ListSupports(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	supports, err := service.ListSupports(c.Request.Context(), activityID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, supports)
}

// GetTiers ?kind=preset|custom，缺省返回全部
func GetTiers(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	tiers, err := service.GetTiers(c.Request.Context(), activityID, TierKind(c.Query("kind")))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tiers)
}

func CreateTier(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req TierData
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定档位请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	tier, err := service.CreateTier(c.Request.Context(), activityID, req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, tier)
}

func SubmitFundProof(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req FundProofData
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定凭证请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	proof, err := service.SubmitFundProof(c.Request.Context(), activityID, req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, proof)
}

func ListFundProofs(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	proofs, err := service.ListFundProofs(c.Request.Context(), activityID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, proofs)
}

type UploadURLReq struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

func ProofUploadURL(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req UploadURLReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	resp, err := service.ProofUploadURL(c.Request.Context(), activityID, req.Filename, req.ContentType, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, resp)
}

func ProofDownloadURL(c *gin.Context) {
	proofID, ok := parseID(c)
	if !ok {
		return
	}
	url, err := service.ProofDownloadURL(c.Request.Context(), proofID, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"download_url": url})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 不合法"))
		return 0, false
	}
	return uint(id), true
}
