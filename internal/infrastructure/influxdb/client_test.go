package influxdb_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/heizung-bridge/internal/infrastructure/config"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/heizung-bridge/internal/infrastructure/logging"
)

// fakeInflux answers pings and records line protocol write bodies.
type fakeInflux struct {
	srv         *httptest.Server
	mu          sync.Mutex
	lines       []string
	healthy     bool
	writeStatus int
}

func newFakeInflux(t *testing.T) *fakeInflux {
	t.Helper()
	f := &fakeInflux{healthy: true, writeStatus: http.StatusNoContent}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.URL.Path {
		case "/ping":
			if !f.healthy {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		case "/api/v2/write":
			if f.writeStatus != http.StatusNoContent {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(f.writeStatus)
				_, _ = io.WriteString(w, `{"code":"invalid","message":"bucket not found"}`)
				return
			}
			body, _ := io.ReadAll(r.Body)
			for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
				if line != "" {
					f.lines = append(f.lines, line)
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeInflux) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.lines))
	copy(out, f.lines)
	return out
}

func (f *fakeInflux) set(fn func(f *fakeInflux)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

// syncBuffer is a bytes.Buffer safe for the write-error goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "heizung-test-token",
		Org:           "heizung",
		Bucket:        "heating",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

func testLogger(w io.Writer) *logging.Logger {
	return logging.NewWithWriter(config.LoggingConfig{Level: "debug"}, "test", w)
}

func connect(t *testing.T, f *fakeInflux, cfg config.InfluxDBConfig) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(cfg, testLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	f := newFakeInflux(t)

	client := connect(t, f, testConfig(f.srv.URL))

	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestConnect_Unreachable(t *testing.T) {
	f := newFakeInflux(t)
	url := f.srv.URL
	f.srv.Close()

	_, err := influxdb.Connect(testConfig(url), testLogger(io.Discard))
	assert.ErrorIs(t, err, influxdb.ErrConnectionFailed)
}

func TestConnect_Unhealthy(t *testing.T) {
	f := newFakeInflux(t)
	f.set(func(f *fakeInflux) { f.healthy = false })

	_, err := influxdb.Connect(testConfig(f.srv.URL), testLogger(io.Discard))
	assert.ErrorIs(t, err, influxdb.ErrConnectionFailed)
}

func TestHealthCheck_Unhealthy(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))

	f.set(func(f *fakeInflux) { f.healthy = false })

	assert.Error(t, client.HealthCheck(context.Background()))
}

func TestHealthCheck_AfterClose(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.HealthCheck(context.Background()), influxdb.ErrNotConnected)
}

func TestClose_ZeroValue(t *testing.T) {
	client := &influxdb.Client{}
	assert.NoError(t, client.Close())
}

// =============================================================================
// Write Tests
// =============================================================================

// Close flushes the batch, so every test writes, closes, then inspects.

func TestWriteSwitch(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))

	client.WriteSwitch(influxdb.SwitchPoint{
		Room:    "salon",
		Action:  "turn_on",
		Channel: "heizung",
		User:    "jakob",
		Comment: "laut gemacht",
		Success: true,
		Time:    time.Unix(1700000000, 0),
	})
	require.NoError(t, client.Close())

	lines := f.Lines()
	require.Len(t, lines, 1)
	line := lines[0]
	assert.True(t, strings.HasPrefix(line, "heating_switch,action=turn_on,channel=heizung,room=salon "), line)
	assert.Contains(t, line, `comment="laut gemacht"`)
	assert.Contains(t, line, `user="jakob"`)
	assert.Contains(t, line, "success=true")
	assert.True(t, strings.HasSuffix(line, " 1700000000000000000"), line)
}

func TestWriteSwitch_NoCommentField(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))

	client.WriteSwitch(influxdb.SwitchPoint{Room: "atelier", Action: "turn_off", Channel: "heizung", User: "jakob"})
	require.NoError(t, client.Close())

	lines := f.Lines()
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], "comment=")
	assert.Contains(t, lines[0], "success=false")
}

func TestWriteStatus(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))

	client.WriteStatus(influxdb.StatusPoint{Sensor: "atelier", State: "FAIL", OK: false, Time: time.Unix(1700000000, 0)})
	client.WriteStatus(influxdb.StatusPoint{Sensor: "salon", State: "an", OK: true, Time: time.Unix(1700000001, 0)})
	require.NoError(t, client.Close())

	lines := f.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, `heating_status,sensor=atelier ok=false,state="FAIL" 1700000000000000000`, lines[0])
	assert.Equal(t, `heating_status,sensor=salon ok=true,state="an" 1700000001000000000`, lines[1])
}

func TestWriteStatus_FreeTextIsAFieldNotATag(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))

	client.WriteStatus(influxdb.StatusPoint{Query: "keller,ost", State: "FAIL", Time: time.Unix(1700000000, 0)})
	require.NoError(t, client.Close())

	lines := f.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, `heating_status ok=false,query="keller,ost",state="FAIL" 1700000000000000000`, lines[0])
}

func TestWrite_ConfiguredTags(t *testing.T) {
	f := newFakeInflux(t)
	cfg := testConfig(f.srv.URL)
	cfg.Tags = map[string]string{"site": "haus"}
	cfg.BatchSize = 0
	cfg.FlushInterval = 0
	client := connect(t, f, cfg)

	client.WriteSwitch(influxdb.SwitchPoint{Room: "salon", Action: "turn_on", Channel: "heizung", User: "jakob"})
	require.NoError(t, client.Close())

	lines := f.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "site=haus")
}

func TestWrite_AfterCloseIsNoop(t *testing.T) {
	f := newFakeInflux(t)
	client := connect(t, f, testConfig(f.srv.URL))
	require.NoError(t, client.Close())

	client.WriteSwitch(influxdb.SwitchPoint{Room: "salon", Action: "turn_on"})
	client.WriteStatus(influxdb.StatusPoint{Sensor: "salon"})

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, f.Lines())
}

func TestWrite_FailedBatchIsLogged(t *testing.T) {
	f := newFakeInflux(t)
	f.set(func(f *fakeInflux) { f.writeStatus = http.StatusBadRequest })

	var logs syncBuffer
	client, err := influxdb.Connect(testConfig(f.srv.URL), testLogger(&logs))
	require.NoError(t, err)

	client.WriteSwitch(influxdb.SwitchPoint{Room: "salon", Action: "turn_on", Channel: "heizung", User: "jakob"})
	require.NoError(t, client.Close())

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "batch write failed")
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, logs.String(), `"component":"influxdb"`)
	assert.Empty(t, f.Lines())
}
