package registration

import (
	"strconv"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
)

func Register(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req RegistrationData
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定报名请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	reg, err := service.Register(c.Request.Context(), activityID, req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, reg)
}

func Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := service.CancelRegistration(c.Request.Context(), id, jwt.GetStudentID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func ListByActivity(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	page, pageSize := tools.GetPage(c)
	regs, total, err := service.ListByActivity(c.Request.Context(), activityID, jwt.GetStudentID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"registrations": regs,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func ListMine(c *gin.Context) {
	page, pageSize := tools.GetPage(c)
	regs, total, err := service.ListMine(c.Request.Context(), jwt.GetStudentID(c), page, pageSize)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"registrations": regs,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 不合法"))
		return 0, false
	}
	return uint(id), true
}
