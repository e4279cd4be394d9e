package client_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/bartab-sdk/internal/client/app"
)

const testToken = "e2e-test-token"

type envelope struct {
	Op   int             `json:"op"`
	Seq  int64           `json:"s,omitempty"`
	Type string          `json:"t,omitempty"`
	Data json.RawMessage `json:"d,omitempty"`
}

const (
	opDispatch       = 0
	opHeartbeat      = 1
	opIdentify       = 2
	opPresenceUpdate = 3
	opHello          = 10
	opHeartbeatAck   = 11
)

// platform is a fake bartab backend: a REST mux plus a websocket gateway.
// It performs the hello/identify/READY exchange on every connection and
// lets tests push dispatch frames afterwards.
type platform struct {
	t *testing.T

	api     *httptest.Server
	gateway *httptest.Server

	// readyPayload is sent as the READY body on every identify.
	readyPayload json.RawMessage

	// patchSelf handles PATCH /users/@me; nil returns 404.
	patchSelf http.HandlerFunc

	mu         sync.Mutex
	conns      []*gatewayConn
	identifies []json.RawMessage
	seq        int64
}

type gatewayConn struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes test-side writes

	// sends collects frames the client writes after identify.
	sends chan envelope
}

func (gc *gatewayConn) write(t *testing.T, env envelope) {
	t.Helper()
	gc.mu.Lock()
	defer gc.mu.Unlock()
	require.NoError(t, gc.conn.WriteJSON(env))
}

var upgrader = websocket.Upgrader{}

func newPlatform(t *testing.T, readyPayload json.RawMessage) *platform {
	t.Helper()
	p := &platform{t: t, readyPayload: readyPayload}

	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /users/@me", func(w http.ResponseWriter, r *http.Request) {
		if p.patchSelf == nil {
			http.NotFound(w, r)
			return
		}
		p.patchSelf(w, r)
	})
	p.api = httptest.NewServer(mux)
	t.Cleanup(p.api.Close)

	p.gateway = httptest.NewServer(http.HandlerFunc(p.serveGateway))
	t.Cleanup(p.gateway.Close)

	return p
}

func (p *platform) serveGateway(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	hello, _ := json.Marshal(map[string]int64{"heartbeat_interval": 60_000})
	if err := conn.WriteJSON(envelope{Op: opHello, Data: hello}); err != nil {
		return
	}

	var identify envelope
	if err := conn.ReadJSON(&identify); err != nil {
		return
	}

	gc := &gatewayConn{conn: conn, sends: make(chan envelope, 16)}
	p.mu.Lock()
	p.identifies = append(p.identifies, identify.Data)
	p.conns = append(p.conns, gc)
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	gc.write(p.t, envelope{Op: opDispatch, Seq: seq, Type: "READY", Data: p.readyPayload})

	// Drain client frames so heartbeats never block the socket; forward
	// everything but heartbeats to the test.
	go func() {
		for {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			if env.Op == opHeartbeat {
				gc.write(p.t, envelope{Op: opHeartbeatAck})
				continue
			}
			select {
			case gc.sends <- env:
			default:
			}
		}
	}()
}

// dispatch pushes one dispatch frame on the first gateway connection.
func (p *platform) dispatch(eventType string, data string) {
	p.mu.Lock()
	require.NotEmpty(p.t, p.conns, "no gateway connection yet")
	gc := p.conns[0]
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	gc.write(p.t, envelope{Op: opDispatch, Seq: seq, Type: eventType, Data: json.RawMessage(data)})
}

func (p *platform) config() app.Config {
	return app.Config{
		Token:      testToken,
		APIBaseURL: p.api.URL,
		GatewayURL: "ws" + strings.TrimPrefix(p.gateway.URL, "http"),
		Shards:     1,
		ReadyWait:  5 * time.Second,
		Env:        "dev",
		LogLevel:   "error",
		LogFormat:  "text",
	}
}

func connect(t *testing.T, p *platform, cfg app.Config) *app.Client {
	t.Helper()
	client, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Connect(t.Context()))
	return client
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

// eventually polls cond until it holds or the deadline passes. Dispatch
// frames are applied asynchronously, so tests wait instead of sleeping.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 5*time.Second, 10*time.Millisecond)
}
