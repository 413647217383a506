package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"campus-activity/internal/global/jwt"
	"campus-activity/internal/global/response"
	"campus-activity/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request 描述一次 handler 调用
type Request struct {
	Method string
	Path   string
	Params gin.Params
	Body   any
	User   *model.User // 非空时模拟 Auth 中间件写入 payload
}

// DoRequest 直接调用 handler 并解析统一响应体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, req Request) (resp response.ResponseBody) {
	t.Helper()
	if req.Method == "" {
		req.Method = http.MethodPost
	}
	if req.Path == "" {
		req.Path = "/test"
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var body *bytes.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(req.Method, req.Path, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = req.Params
	if req.User != nil {
		c.Set(jwt.PayloadKey, &jwt.Claims{Payload: jwt.Payload{
			StudentID: req.User.StudentID,
			RoleID:    int(req.User.RoleID),
		}})
	}

	handlerFunc(c)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// ID 路径参数
func ID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
