package audit

import (
	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/internal/module/activity"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
)

// AuditReq approve 为 false 时 reason 必填
type AuditReq struct {
	Approve *bool  `json:"approve" binding:"required"`
	Reason  string `json:"reason"`
}

func AuditActivity(c *gin.Context) {
	id, ok := activity.ParseID(c)
	if !ok {
		return
	}
	var req AuditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定审核请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	a, err := service.AuditActivity(c.Request.Context(), id, *req.Approve, req.Reason, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

func AuditFundProof(c *gin.Context) {
	id, ok := activity.ParseID(c)
	if !ok {
		return
	}
	var req AuditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定审核请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	proof, err := service.AuditFundProof(c.Request.Context(), id, *req.Approve, req.Reason, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, proof)
}

// GetActivityAuditLogs ?desc=true 时最新的在前
func GetActivityAuditLogs(c *gin.Context) {
	id, ok := activity.ParseID(c)
	if !ok {
		return
	}
	page, pageSize := tools.GetPage(c)
	desc := c.Query("desc") == "true"

	logs, total, err := service.GetActivityAuditLogs(c.Request.Context(), id, page, pageSize, desc)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
