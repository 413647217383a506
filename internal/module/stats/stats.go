package stats

import (
	"fmt"
	"strconv"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
)

func ActivityStats(c *gin.Context) {
	result, err := service.GetActivityStatistics(c.Request.Context(), jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

func CrowdfundingStats(c *gin.Context) {
	result, err := service.GetCrowdfundingStatistics(c.Request.Context(), jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

func Dashboard(c *gin.Context) {
	result, err := service.GetAdminDashboard(c.Request.Context(), jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// ExportRegistrations 以 xlsx 附件返回报名名单
func ExportRegistrations(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID不合法"))
		return
	}

	f, a, err := service.ExportRegistrations(c.Request.Context(), uint(id), jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error("关闭 excel 文件失败", "error", err)
		}
	}()

	if err := tools.SendExcel(c, f, fmt.Sprintf("%s-报名名单.xlsx", a.Title)); err != nil {
		log.Error("发送 excel 文件失败", "error", err, "activity_id", id)
	}
}
