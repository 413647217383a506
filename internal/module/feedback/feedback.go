package feedback

import (
	"strconv"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"

	"github.com/gin-gonic/gin"
)

func Submit(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	var req FeedbackData
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定评价请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	fb, err := service.Submit(c.Request.Context(), activityID, req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, fb)
}

func List(c *gin.Context) {
	activityID, ok := parseID(c)
	if !ok {
		return
	}
	summary, err := service.List(c.Request.Context(), activityID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, summary)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 不合法"))
		return 0, false
	}
	return uint(id), true
}
