package wallpaper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/saaga0h/sunwall/internal/daylight"
	"github.com/saaga0h/sunwall/internal/theme"
	"github.com/saaga0h/sunwall/pkg/mqtt"
	"github.com/saaga0h/sunwall/pkg/postgres"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

// fakeApplier fails the first failures calls
type fakeApplier struct {
	mu       sync.Mutex
	failures int
	paths    []string
}

func (f *fakeApplier) Apply(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.paths = append(f.paths, path)
	if len(f.paths) <= f.failures {
		return errors.New("display not ready")
	}
	return nil
}

func (f *fakeApplier) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.paths)
}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeMQTT struct {
	mu         sync.Mutex
	connected  bool
	subscribed map[string]mqtt.MessageHandler
	messages   []published
}

func newFakeMQTT() *fakeMQTT {
	return &fakeMQTT{subscribed: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeMQTT) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = true
	return nil
}

func (f *fakeMQTT) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *fakeMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed[topic] = handler
	return nil
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, published{topic: topic, qos: qos, retained: retained, payload: payload})
	return nil
}

func (f *fakeMQTT) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

type fakeMessage struct {
	topic    string
	payload  []byte
	retained bool
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }
func (m *fakeMessage) Retained() bool  { return m.retained }
func (m *fakeMessage) Ack()            {}

type fakeRedis struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{hashes: make(map[string]map[string]string)}
}

func (f *fakeRedis) HSet(ctx context.Context, key string, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	hash, ok := f.hashes[key]
	if !ok {
		hash = make(map[string]string)
		f.hashes[key] = hash
	}
	for field, v := range values {
		hash[field] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string)
	for k, v := range f.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.hashes, k)
	}
	return nil
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }
func (f *fakeRedis) Close() error                   { return nil }

type execCall struct {
	query string
	args  []interface{}
}

type fakePostgres struct {
	mu    sync.Mutex
	execs []execCall
}

func (f *fakePostgres) Connect(ctx context.Context) error { return nil }
func (f *fakePostgres) Disconnect() error                 { return nil }
func (f *fakePostgres) IsConnected() bool                 { return true }

func (f *fakePostgres) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, execCall{query: query, args: args})
	return nil, nil
}

func (f *fakePostgres) HealthCheck(ctx context.Context) (*postgres.HealthStatus, error) {
	return &postgres.HealthStatus{Connected: true}, nil
}

// writeTheme creates a 16 image theme: sunrise 1-4, day 5-9, sunset 10-13, night 14-16 and 1
func writeTheme(t *testing.T) *theme.Theme {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "lakeside")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	descriptor := `{
		"displayName": "Lakeside",
		"imageFilename": "lakeside_*.jpg",
		"sunriseImageList": [1, 2, 3, 4],
		"dayImageList": [5, 6, 7, 8, 9],
		"sunsetImageList": [10, 11, 12, 13],
		"nightImageList": [14, 15, 16, 1]
	}`
	if err := os.WriteFile(filepath.Join(dir, "theme.json"), []byte(descriptor), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 16; i++ {
		name := filepath.Join(dir, fmt.Sprintf("lakeside_%d.jpg", i))
		if err := os.WriteFile(name, []byte("jpg"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	th, err := theme.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	return th
}

// testProvider: dawn 05:30, sunrise 06:00, sunset 18:00, dusk 18:45
var testProvider = daylight.FixedProvider{
	Dawn:    5*time.Hour + 30*time.Minute,
	Sunrise: 6 * time.Hour,
	Sunset:  18 * time.Hour,
	Dusk:    18*time.Hour + 45*time.Minute,
}

func utcLocation() *daylight.Location {
	return &daylight.Location{Latitude: 60.1695, Longitude: 24.9354, Timezone: "UTC"}
}

func at(h, m int) time.Time {
	return time.Date(2024, time.June, 10, h, m, 0, 0, time.UTC)
}
