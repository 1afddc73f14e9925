package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
	goredis "github.com/redis/go-redis/v9"
)

// RedisChecker sends PING and reads the server version.
type RedisChecker struct {
	Password string
	Timeout  time.Duration
}

// Check performs a health check on Redis.
func (c *RedisChecker) Check(ctx context.Context, ep model.Endpoint) *CheckResult {
	result := newResult("redis")

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         ep.Address(),
		Password:     c.Password,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := client.Ping(ctx).Err(); err != nil {
		result.Latency = time.Since(start)
		return result.fail(StatusUnhealthy, fmt.Sprintf("ping failed: %v", err))
	}
	result.Latency = time.Since(start)

	if info, err := client.Info(ctx, "server").Result(); err == nil {
		if v := infoField(info, "redis_version"); v != "" {
			result.Metadata["version"] = v
		}
	}

	result.OK = true
	result.Status = StatusHealthy
	result.Message = fmt.Sprintf("PONG (latency: %v)", result.Latency)
	return result
}

func infoField(info, key string) string {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, key+":"); ok {
			return v
		}
	}
	return ""
}
