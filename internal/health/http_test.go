package health

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverEndpoint(t *testing.T, srv *httptest.Server) model.Endpoint {
	t.Helper()
	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return model.Endpoint{Host: host, Port: port}
}

func TestHTTPChecker_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		wantOK bool
	}{
		{"ok", http.StatusOK, true},
		{"unauthorized means present", http.StatusUnauthorized, true},
		{"forbidden means present", http.StatusForbidden, true},
		{"not found means present", http.StatusNotFound, true},
		{"redirect means present", http.StatusFound, true},
		{"server error", http.StatusInternalServerError, false},
		{"bad gateway", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				if tt.status == http.StatusFound {
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			checker := &HTTPChecker{Path: "/api/"}
			result := checker.Check(context.Background(), serverEndpoint(t, srv))

			assert.Equal(t, tt.wantOK, result.OK, "%#v", result)
			assert.Equal(t, "/api/", gotPath)
			assert.Equal(t, strconv.Itoa(tt.status), result.Metadata["status_code"])
			if !tt.wantOK {
				assert.Equal(t, "HTTP "+strconv.Itoa(tt.status), result.Error)
			}
		})
	}
}

func TestHTTPChecker_HonoursScheme(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ep := serverEndpoint(t, srv)
	ep.Scheme = "https"

	checker := &HTTPChecker{Path: "/", Client: srv.Client()}
	result := checker.Check(context.Background(), ep)

	assert.True(t, result.OK, "%#v", result)
	assert.Contains(t, result.Metadata["url"], "https://")
}

func TestHTTPChecker_ConnectionRefused(t *testing.T) {
	l, port := listen(t)
	require.NoError(t, l.Close())

	checker := &HTTPChecker{Path: "/healthz"}
	result := checker.Check(context.Background(), model.Endpoint{Host: "127.0.0.1", Port: port})

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "connection failed")
}
