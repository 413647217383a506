package ping

import (
	"context"
	"testing"

	"campus-activity/test"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckWithoutRedis(t *testing.T) {
	db := test.NewDB(t)
	h := NewChecker(db, nil).Check(context.Background())

	assert.True(t, h.Healthy)
	assert.Equal(t, statusUp, h.Deps["mysql"])
	assert.Equal(t, statusDisabled, h.Deps["redis"])
}

func TestCheckRedisDown(t *testing.T) {
	db := test.NewDB(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ch := NewChecker(db, client)
	h := ch.Check(context.Background())
	assert.True(t, h.Healthy)
	assert.Equal(t, statusUp, h.Deps["redis"])

	mr.Close()
	h = ch.Check(context.Background())
	assert.False(t, h.Healthy)
	assert.Equal(t, statusDown, h.Deps["redis"])
}

func TestCheckNoDatabase(t *testing.T) {
	h := NewChecker(nil, nil).Check(context.Background())
	assert.False(t, h.Healthy)
	assert.Equal(t, statusDown, h.Deps["mysql"])
}

func TestHealthCheckHandler(t *testing.T) {
	checker = NewChecker(test.NewDB(t), nil)
	t.Cleanup(func() { checker = nil })

	resp := test.DoRequest(t, HealthCheck, test.Request{Method: "GET", Path: "/health"})
	test.NoError(t, resp)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, data["healthy"])
	assert.Equal(t, map[string]any{"mysql": statusUp, "redis": statusDisabled}, data["deps"])
}
