package health

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRedisChecker(t *testing.T) {
	mr := miniredis.RunT(t)
	ep := model.Endpoint{Host: mr.Host(), Port: portOf(t, mr.Port())}

	checker := &RedisChecker{Timeout: time.Second}
	result := checker.Check(context.Background(), ep)
	assert.True(t, result.OK, "%#v", result)
	assert.Equal(t, StatusHealthy, result.Status)

	mr.Close()
	result = checker.Check(context.Background(), ep)
	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "ping failed")
}

func TestRedisChecker_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")
	ep := model.Endpoint{Host: mr.Host(), Port: portOf(t, mr.Port())}

	bad := &RedisChecker{Password: "wrong", Timeout: time.Second}
	assert.False(t, bad.Check(context.Background(), ep).OK)

	good := &RedisChecker{Password: "s3cret", Timeout: time.Second}
	assert.True(t, good.Check(context.Background(), ep).OK)
}

func TestInfoField(t *testing.T) {
	info := "# Server\r\nredis_version:7.2.4\r\nredis_mode:standalone\r\n"
	assert.Equal(t, "7.2.4", infoField(info, "redis_version"))
	assert.Equal(t, "", infoField(info, "missing"))
}
