package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMQTT struct {
	connected bool
}

func (s *stubMQTT) Connect(ctx context.Context) error { return nil }
func (s *stubMQTT) Disconnect()                       {}
func (s *stubMQTT) IsConnected() bool                 { return s.connected }

func (s *stubMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	return nil
}

func (s *stubMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	return nil
}

type stubPostgres struct {
	connected bool
	pingOK    bool
}

func (s *stubPostgres) Connect(ctx context.Context) error { return nil }
func (s *stubPostgres) Disconnect() error                 { return nil }
func (s *stubPostgres) IsConnected() bool                 { return s.connected }

func (s *stubPostgres) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (s *stubPostgres) HealthCheck(ctx context.Context) (*postgres.HealthStatus, error) {
	status := &postgres.HealthStatus{Connected: s.pingOK}
	if !s.pingOK {
		status.Error = "connection refused"
	}
	return status, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func serve(t *testing.T, c *Checker, path string) (int, HealthResponse) {
	t.Helper()
	mux := http.NewServeMux()
	c.Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestHealth_Basic(t *testing.T) {
	code, resp := serve(t, NewChecker(nil, nil, nil, testLogger()), "/health")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Services)
}

func TestHealth_DetailedAllDisabled(t *testing.T) {
	code, resp := serve(t, NewChecker(nil, nil, nil, testLogger()), "/health/detailed")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", resp.Status)
	require.NotNil(t, resp.Services)
	assert.Equal(t, StatusDisabled, resp.Services.MQTT)
	assert.Equal(t, StatusDisabled, resp.Services.Redis)
	assert.Equal(t, StatusDisabled, resp.Services.Postgres)
}

func TestHealth_DetailedMQTTDown(t *testing.T) {
	code, resp := serve(t, NewChecker(&stubMQTT{connected: false}, nil, nil, testLogger()), "/health/detailed")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, StatusDisconnected, resp.Services.MQTT)
}

func TestHealth_DetailedMQTTUp(t *testing.T) {
	code, resp := serve(t, NewChecker(&stubMQTT{connected: true}, nil, nil, testLogger()), "/health/detailed")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusConnected, resp.Services.MQTT)
}

func TestHealth_DetailedPostgres(t *testing.T) {
	tests := []struct {
		name     string
		pg       *stubPostgres
		wantCode int
		want     string
	}{
		{"healthy", &stubPostgres{connected: true, pingOK: true}, http.StatusOK, StatusConnected},
		{"ping fails", &stubPostgres{connected: true, pingOK: false}, http.StatusServiceUnavailable, StatusDisconnected},
		{"pool closed", &stubPostgres{connected: false}, http.StatusServiceUnavailable, StatusDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serve(t, NewChecker(nil, nil, tt.pg, testLogger()), "/health/detailed")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.want, resp.Services.Postgres)
		})
	}
}
