package response

import (
	"net/http"

	"campus-activity/config"
	"campus-activity/internal/global/logger"

	"github.com/gin-gonic/gin"
)

type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Origin string `json:"origin,omitempty"`
	Data   any    `json:"data,omitempty"`
}

const successCode = 200

func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: successCode, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 统一错误响应，HTTP 状态码始终为 200，错误种类由 code 区分
func Fail(c *gin.Context, err error) {
	e := From(err)
	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}
	_ = c.Error(e)
	c.Set(ErrorContextKey, e)
	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 panic 并返回服务器内部错误
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.Get().Error("panic recovered",
			"panic", r,
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		Fail(c, ErrServerInternal)
		c.Abort()
	}
}
