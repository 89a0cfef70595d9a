package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcycle/calculator"
	"refcycle/config"
	"refcycle/model"
)

type recorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *recorder) Publish(res *calculator.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, res.ID)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *recorder) {
	cfg, err := config.Load("../conf/config.ini")
	require.NoError(t, err)
	cfg.Server.StaticDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Server.StaticDir, "index.html"), []byte("<html>dashboard</html>"), 0o644))

	rec := &recorder{}
	s := NewServer(cfg, websocket.Upgrader{}, rec)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, rec
}

const scenario = `{"refrigerant":"R134a","reference_state":"ASHRAE",
"evaporator":{"kind":"temperature","value":40},"condenser":{"kind":"temperature","value":110},
"superheat":10,"subcooling":10,"efficiency":70,"mass_flow":5}`

func post(t *testing.T, url, body string) *http.Response {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/refrigerants")
	require.NoError(t, err)
	defer resp.Body.Close()
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Equal(t, []string{"R22", "R134a", "R32", "R410A", "R507A"}, names)

	resp, err = http.Get(ts.URL + "/api/reference-states")
	require.NoError(t, err)
	defer resp.Body.Close()
	var info model.ReferenceInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, []string{"ASHRAE", "NBP", "IIR"}, info.States)
	assert.Contains(t, info.Help, "Danfoss")

	resp, err = http.Get(ts.URL + "/api/defaults")
	require.NoError(t, err)
	defer resp.Body.Close()
	var d model.Defaults
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, calculator.DefaultInput(), d.Input)
	assert.Equal(t, 85.0, d.EvaporatorPressure)
}

func TestStatic(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCycle(t *testing.T) {
	ts, rec := newTestServer(t)

	resp := post(t, ts.URL+"/api/cycle", scenario)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out model.CycleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	require.Len(t, out.States, 4)
	assert.InDelta(t, 50.0, out.States[0].T, 0.01)
	assert.InDelta(t, 4.25, out.Performance.COP, 0.05)
	require.NotNil(t, out.Performance.KWPerTon)
	assert.Contains(t, out.Text, "Refrigerant: R134a")
	assert.Equal(t, []string{out.ID}, rec.ids)
}

func TestCyclePartialBodyUsesDefaults(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := post(t, ts.URL+"/api/cycle", `{"mass_flow": 10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out model.CycleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "R22", out.Input.Refrigerant)
	assert.Equal(t, 10.0, out.Input.MassFlow)
}

func TestCycleErrors(t *testing.T) {
	ts, rec := newTestServer(t)

	for _, tc := range []struct {
		body   string
		status int
	}{
		{`{"efficiency": 5}`, http.StatusBadRequest},
		{`{"refrigerant": "R12"}`, http.StatusBadRequest},
		{`{"evaporator": {"kind": "volume", "value": 1}}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"condenser": {"kind": "pressure", "value": 2000}}`, http.StatusUnprocessableEntity},
	} {
		body, status := tc.body, tc.status
		resp := post(t, ts.URL+"/api/cycle", body)
		assert.Equal(t, status, resp.StatusCode, body)
		var e model.ErrorReply
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.NotEmpty(t, e.Error)
		if status == http.StatusUnprocessableEntity {
			assert.True(t, strings.HasPrefix(e.Error, "calculation error: "), e.Error)
		}
	}
	assert.Empty(t, rec.ids)
}

func TestCycleXLSX(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := post(t, ts.URL+"/api/cycle/xlsx", scenario)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestWebsocket(t *testing.T) {
	ts, _ := newTestServer(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	exchange := func(msg model.Msg) model.Msg {
		require.NoError(t, conn.WriteJSON(msg))
		var reply model.Msg
		require.NoError(t, conn.ReadJSON(&reply))
		return reply
	}

	reply := exchange(model.Msg{Type: model.TypeDefaults})
	assert.Equal(t, model.TypeDefaults, reply.Type)

	reply = exchange(model.Msg{Type: model.TypeCalculate, Content: scenario})
	require.Equal(t, model.TypeResult, reply.Type, reply.Content)
	var out model.CycleResponse
	require.NoError(t, json.Unmarshal([]byte(reply.Content), &out))
	assert.InDelta(t, 4.25, out.Performance.COP, 0.05)

	reply = exchange(model.Msg{Type: model.TypeCalculate, Content: `{"superheat": 99}`})
	assert.Equal(t, model.TypeError, reply.Type)
	assert.Contains(t, reply.Content, "superheat")

	reply = exchange(model.Msg{Type: model.TypeCalculate, Content: `{"condenser": {"kind": "temperature", "value": 60}, "superheat": 30, "subcooling": 30}`})
	require.Equal(t, model.TypeResult, reply.Type, reply.Content)
	require.NoError(t, json.Unmarshal([]byte(reply.Content), &out))
	assert.Equal(t, []string{"Expansion valve output is not in two-phase region!"}, out.Warnings)
	assert.Contains(t, out.Text, "Warning: Expansion valve output is not in two-phase region!")

	reply = exchange(model.Msg{Type: "start"})
	assert.Equal(t, model.TypeError, reply.Type)
}
