package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedCall is one request seen by the fake Home Assistant.
type recordedCall struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Body          map[string]any
}

// fakeHA is an httptest server that records every call and answers with
// the handler's response.
type fakeHA struct {
	srv   *httptest.Server
	mu    sync.Mutex
	calls []recordedCall
}

func newFakeHA(t *testing.T, respond http.HandlerFunc) *fakeHA {
	t.Helper()
	f := &fakeHA{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := recordedCall{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
		}
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &call.Body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()
		respond(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHA) Calls() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := New(Options{BaseURL: baseURL, Token: "ha-token", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func okJSON(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func TestNew_RequiresURLAndToken(t *testing.T) {
	_, err := New(Options{Token: "t"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(Options{BaseURL: "http://ha/api/"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_TurnOn(t *testing.T) {
	ha := newFakeHA(t, okJSON(`[]`))
	c := newTestClient(t, ha.srv.URL+"/api/")

	body, err := c.TurnOn(context.Background(), "switch.heizung_salon")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))

	calls := ha.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/api/services/switch/turn_on", calls[0].Path)
	assert.Equal(t, "Bearer ha-token", calls[0].Authorization)
	assert.Equal(t, "application/json", calls[0].ContentType)
	assert.Equal(t, map[string]any{"entity_id": "switch.heizung_salon"}, calls[0].Body)
}

func TestClient_TurnOff(t *testing.T) {
	ha := newFakeHA(t, okJSON(`[]`))
	c := newTestClient(t, ha.srv.URL+"/api")

	_, err := c.TurnOff(context.Background(), "switch.heizung_salon")
	require.NoError(t, err)

	calls := ha.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/services/switch/turn_off", calls[0].Path)
}

func TestClient_SetText(t *testing.T) {
	ha := newFakeHA(t, okJSON(`[]`))
	c := newTestClient(t, ha.srv.URL+"/api/")

	_, err := c.SetText(context.Background(), "input_text.salon_heizkommentar", "test")
	require.NoError(t, err)

	calls := ha.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/services/input_text/set_value", calls[0].Path)
	assert.Equal(t, map[string]any{
		"entity_id": "input_text.salon_heizkommentar",
		"value":     "test",
	}, calls[0].Body)
}

func TestClient_Logbook(t *testing.T) {
	ha := newFakeHA(t, okJSON(`[]`))
	c := newTestClient(t, ha.srv.URL+"/api/")

	_, err := c.Logbook(context.Background(), LogbookEntry{
		Name:     "Heizung salon",
		Message:  "test",
		EntityID: "switch.heizung_salon",
	})
	require.NoError(t, err)

	calls := ha.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/services/logbook/log", calls[0].Path)
	assert.Equal(t, map[string]any{
		"name":      "Heizung salon",
		"message":   "test",
		"entity_id": "switch.heizung_salon",
	}, calls[0].Body)
}

func TestClient_GetState(t *testing.T) {
	tests := []struct {
		name         string
		respond      http.HandlerFunc
		wantValue    string
		wantHasState bool
		wantErr      error
	}{
		{
			name:         "state present",
			respond:      okJSON(`{"entity_id":"sensor.status_salon","state":"an seit 10:00"}`),
			wantValue:    "an seit 10:00",
			wantHasState: true,
		},
		{
			name:         "state field missing",
			respond:      okJSON(`{"message":"nothing here"}`),
			wantHasState: false,
		},
		{
			name:    "unparseable body",
			respond: okJSON(`<html>oops</html>`),
			wantErr: ErrInvalidResponse,
		},
		{
			name: "not found",
			respond: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"message":"Entity not found."}`)
			},
			wantErr: ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ha := newFakeHA(t, tt.respond)
			c := newTestClient(t, ha.srv.URL+"/api/")

			st, err := c.GetState(context.Background(), "sensor.status_salon")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, st.Value)
			assert.Equal(t, tt.wantHasState, st.HasState)

			calls := ha.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodGet, calls[0].Method)
			assert.Equal(t, "/api/states/sensor.status_salon", calls[0].Path)
			assert.Equal(t, "Bearer ha-token", calls[0].Authorization)
		})
	}
}

func TestClient_GetStateEscapesEntity(t *testing.T) {
	ha := newFakeHA(t, okJSON(`{"state":"x"}`))
	c := newTestClient(t, ha.srv.URL+"/api/")

	_, err := c.GetState(context.Background(), "sensor.status_a b/../c")
	require.NoError(t, err)

	calls := ha.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/states/sensor.status_a%20b%2F..%2Fc", calls[0].Path)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL + "/api/"
	srv.Close()

	c := newTestClient(t, baseURL)
	_, err := c.TurnOn(context.Background(), "switch.heizung_salon")

	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.False(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestClient_ServerErrorIsFailure(t *testing.T) {
	ha := newFakeHA(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, ha.srv.URL+"/api/")

	_, err := c.TurnOff(context.Background(), "switch.heizung_salon")
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Len(t, ha.Calls(), 1, "failed calls must not be retried")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	ha := newFakeHA(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c, err := New(Options{BaseURL: ha.srv.URL + "/api/", Token: "t", Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.TurnOn(context.Background(), "switch.heizung_salon")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		domain, object, want string
	}{
		{DomainSwitch, "heizung_salon", "switch.heizung_salon"},
		{DomainSwitch, "switch.heizung_salon", "switch.heizung_salon"},
		{DomainInputText, "salon_heizkommentar", "input_text.salon_heizkommentar"},
		{DomainSensor, "status_atelier", "sensor.status_atelier"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, EntityID(tt.domain, tt.object))
		})
	}
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "states", endpointLabel(http.MethodGet, "states/sensor.status_salon"))
	assert.Equal(t, "services/switch/turn_on", endpointLabel(http.MethodPost, "services/switch/turn_on"))
}
