package activity

import (
	"net/http"
	"testing"
	"time"

	"campus-activity/internal/global/response"
	"campus-activity/internal/model"
	"campus-activity/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestActivityHandlers(t *testing.T) {
	svc, db := newTestService(t)
	service = svc
	organizer := test.CreateUser(t, db, model.RoleOrganizer)

	resp := test.DoRequest(t, CreateActivity, test.Request{
		User: organizer,
		Body: gin.H{
			"title":      "编程马拉松",
			"start_time": test.Now.Add(24 * time.Hour),
			"end_time":   test.Now.Add(48 * time.Hour),
		},
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	assert.Equal(t, string(model.ActivityPendingAudit), data["status"])

	resp = test.DoRequest(t, CreateActivity, test.Request{
		User: organizer,
		Body: gin.H{
			"title":               "缺目标的众筹",
			"start_time":          test.Now.Add(24 * time.Hour),
			"end_time":            test.Now.Add(48 * time.Hour),
			"enable_crowdfunding": true,
			"crowdfunding_target": "0",
		},
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, GetActivity, test.Request{
		Method: http.MethodGet,
		Params: gin.Params{{Key: "id", Value: "abc"}},
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	resp = test.DoRequest(t, GetActivity, test.Request{
		Method: http.MethodGet,
		Params: gin.Params{{Key: "id", Value: "404"}},
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)

	resp = test.DoRequest(t, ListActivities, test.Request{Method: http.MethodGet, Path: "/activity?status=PENDING_AUDIT"})
	test.NoError(t, resp)
	assert.EqualValues(t, 1, resp.Data.(map[string]any)["total"])
}
