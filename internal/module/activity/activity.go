package activity

import (
	"strconv"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/tools"

	"github.com/gin-gonic/gin"
)

// CreateActivity 组织者发起活动，进入待审核
func CreateActivity(c *gin.Context) {
	var req ActivityData
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	a, err := service.CreateActivity(c.Request.Context(), req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"activity_id": a.ID,
		"status":      a.Status,
	})
}

// UpdateActivity 部分更新活动
func UpdateActivity(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var req ActivityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定更新活动请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	a, err := service.UpdateActivity(c.Request.Context(), id, req, jwt.GetStudentID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

func DeleteActivity(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	if err := service.DeleteActivity(c.Request.Context(), id, jwt.GetStudentID(c)); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func GetActivity(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	a, err := service.GetActivity(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

// ListActivitiesReq 活动列表查询参数
type ListActivitiesReq struct {
	OrganizerID uint   `form:"organizer_id"`
	Status      string `form:"status"`
	Title       string `form:"title"`
	Type        string `form:"type"`
}

func ListActivities(c *gin.Context) {
	var req ListActivitiesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		log.Error("绑定查询参数失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	page, pageSize := tools.GetPage(c)

	activities, total, err := service.ListActivities(c.Request.Context(), ListFilter{
		OrganizerID: req.OrganizerID,
		Status:      model.ActivityStatus(req.Status),
		Title:       req.Title,
		Type:        req.Type,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"activities":  activities,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// AdvanceStatuses 管理员（或外部定时任务）触发时间驱动的状态迁移
func AdvanceStatuses(c *gin.Context) {
	moved, err := service.AdvanceStatuses(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"moved": moved})
}

// ParseID 读取路径参数 id，失败时已写入错误响应
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 不合法"))
		return 0, false
	}
	return uint(id), true
}
