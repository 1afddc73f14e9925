package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/lcars-computer/stackctl/internal/model"
	_ "github.com/lib/pq"
)

// PostgresChecker logs in and runs a trivial query.
type PostgresChecker struct {
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// Check performs a health check on Postgres.
func (c *PostgresChecker) Check(ctx context.Context, ep model.Endpoint) *CheckResult {
	result := newResult("postgres")

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultHTTPTimeout
	}

	db, err := sql.Open("postgres", c.connString(ep, timeout))
	if err != nil {
		return result.fail(StatusUnhealthy, fmt.Sprintf("failed to open connection: %v", err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		result.Latency = time.Since(start)
		return result.fail(StatusUnhealthy, fmt.Sprintf("ping failed: %v", err))
	}
	result.Latency = time.Since(start)

	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return result.fail(StatusDegraded, fmt.Sprintf("query failed: %v", err))
	}
	result.Metadata["version"] = version

	result.OK = true
	result.Status = StatusHealthy
	result.Message = fmt.Sprintf("Connected successfully (latency: %v)", result.Latency)
	return result
}

func (c *PostgresChecker) connString(ep model.Endpoint, timeout time.Duration) string {
	database := c.Database
	if database == "" {
		database = "postgres"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   ep.Address(),
		Path:   "/" + database,
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	secs := int(timeout / time.Second)
	if secs < 1 {
		secs = 1
	}
	q.Set("connect_timeout", strconv.Itoa(secs))
	u.RawQuery = q.Encode()
	return u.String()
}
