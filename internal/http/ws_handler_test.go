package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/service"
	"lessons-api/internal/ws"
)

type wsTestEnv struct {
	srv      *httptest.Server
	jwtSvc   *service.JWTService
	registry *ws.Registry
	repo     *mockMessageRepo
}

func newWSTestEnv(t *testing.T) *wsTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	jwtSvc := newTestJWTService()
	repo := newMockMessageRepo()
	registry := ws.NewRegistry()
	dispatcher := ws.NewDispatcher(logger, repo, nil, registry, nil)
	handler := NewWSHandler(logger, jwtSvc, registry, dispatcher)

	r := gin.New()
	r.GET("/ws", handler.Connect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &wsTestEnv{srv: srv, jwtSvc: jwtSvc, registry: registry, repo: repo}
}

func (e *wsTestEnv) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	pair, err := e.jwtSvc.GeneratePair(domain.User{ID: userID, Email: userID + "@example.com"})
	if err != nil {
		t.Fatalf("unexpected error issuing token: %v", err)
	}
	return pair.AccessToken
}

func (e *wsTestEnv) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("unexpected error dialing: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (e *wsTestEnv) waitForSessions(t *testing.T, userID string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(e.registry.Lookup(userID)) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d sessions for %s, got %d", want, userID, len(e.registry.Lookup(userID)))
}

func readFrame(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("unexpected error reading frame: %v", err)
	}
	return string(data)
}

func TestWSHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	env := newWSTestEnv(t)

	for _, path := range []string{"/ws", "/ws?token=garbage"} {
		resp, err := http.Get(env.srv.URL + path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestWSHandler_FanOutToAllReceiverSessions(t *testing.T) {
	env := newWSTestEnv(t)

	alice1 := env.dial(t, env.tokenFor(t, "alice"))
	alice2 := env.dial(t, env.tokenFor(t, "alice"))
	bob := env.dial(t, env.tokenFor(t, "bob"))
	env.waitForSessions(t, "alice", 2)
	env.waitForSessions(t, "bob", 1)

	if err := bob.WriteJSON(map[string]string{"to": "alice", "message": "hello"}); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}

	want := "[From bob] hello"
	if got := readFrame(t, alice1); got != want {
		t.Fatalf("alice1: expected %q, got %q", want, got)
	}
	if got := readFrame(t, alice2); got != want {
		t.Fatalf("alice2: expected %q, got %q", want, got)
	}

	// El emisor recibe el eco del mensaje persistido.
	echo := readFrame(t, bob)
	if !strings.Contains(echo, `"content":"hello"`) || !strings.Contains(echo, `"sender_id":"bob"`) {
		t.Fatalf("unexpected echo frame: %s", echo)
	}

	env.repo.mu.Lock()
	persisted := len(env.repo.created)
	env.repo.mu.Unlock()
	if persisted != 1 {
		t.Fatalf("expected 1 persisted message, got %d", persisted)
	}
}

func TestWSHandler_MalformedEventGetsErrorFrame(t *testing.T) {
	env := newWSTestEnv(t)

	bob := env.dial(t, env.tokenFor(t, "bob"))
	env.waitForSessions(t, "bob", 1)

	if err := bob.WriteMessage(websocket.TextMessage, []byte(`{"message": "no receiver"}`)); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}

	frame := readFrame(t, bob)
	if !strings.Contains(frame, "malformed event") {
		t.Fatalf("expected an error frame, got %s", frame)
	}

	// La conexión sigue abierta: un evento válido posterior funciona.
	if err := bob.WriteJSON(map[string]string{"to": "alice", "message": "still here"}); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}
	echo := readFrame(t, bob)
	if !strings.Contains(echo, `"content":"still here"`) {
		t.Fatalf("unexpected echo frame: %s", echo)
	}
}

func TestWSHandler_OfflineReceiverStillPersists(t *testing.T) {
	env := newWSTestEnv(t)

	bob := env.dial(t, env.tokenFor(t, "bob"))
	env.waitForSessions(t, "bob", 1)

	if err := bob.WriteJSON(map[string]string{"to": "alice", "message": "for later"}); err != nil {
		t.Fatalf("unexpected error writing: %v", err)
	}
	echo := readFrame(t, bob)
	if !strings.Contains(echo, `"receiver_id":"alice"`) {
		t.Fatalf("unexpected echo frame: %s", echo)
	}

	env.repo.mu.Lock()
	defer env.repo.mu.Unlock()
	if len(env.repo.created) != 1 || env.repo.created[0].ReceiverID != "alice" {
		t.Fatalf("expected persisted message for alice, got %+v", env.repo.created)
	}
}

func TestWSHandler_DisconnectCleansRegistry(t *testing.T) {
	env := newWSTestEnv(t)

	alice1 := env.dial(t, env.tokenFor(t, "alice"))
	_ = env.dial(t, env.tokenFor(t, "alice"))
	env.waitForSessions(t, "alice", 2)

	_ = alice1.Close()
	env.waitForSessions(t, "alice", 1)
}
