package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"lessons-api/internal/domain"
	"lessons-api/internal/service"
	"lessons-api/internal/ws"
)

type mockMessageRepo struct {
	mu      sync.Mutex
	created []domain.Message
	byID    map[string]domain.Message
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{byID: make(map[string]domain.Message)}
}

func (m *mockMessageRepo) Create(ctx context.Context, message domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, message)
	m.byID[message.ID] = message
	return nil
}

func (m *mockMessageRepo) ListForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.created {
		if msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, id string) (domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[id]
	if !ok {
		return domain.Message{}, pgx.ErrNoRows
	}
	msg.IsRead = true
	m.byID[id] = msg
	return msg, nil
}

// fakeClaims inyecta una identidad autenticada sin pasar por el middleware.
func fakeClaims(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(authClaimsKey, service.Claims{UserID: userID, Email: userID + "@example.com"})
		c.Next()
	}
}

func newMessageRouter(repo *mockMessageRepo, senderID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	dispatcher := ws.NewDispatcher(logger, repo, nil, ws.NewRegistry(), nil)
	h := NewMessageHandler(logger, dispatcher)

	r := gin.New()
	r.POST("/messages", fakeClaims(senderID), h.Send)
	r.GET("/messages/inbox/:userId", fakeClaims(senderID), h.Inbox)
	r.PATCH("/messages/read/:messageId", fakeClaims(senderID), h.MarkRead)
	return r
}

func TestMessageHandler_Send(t *testing.T) {
	repo := newMockMessageRepo()
	r := newMessageRouter(repo, "bob")

	body := `{"receiver_id": "alice", "content": "hello"}`
	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message   domain.Message `json:"message"`
		Delivered int            `json:"delivered"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error decoding response: %v", err)
	}
	if resp.Message.SenderID != "bob" {
		t.Fatalf("sender must come from the authenticated identity, got %q", resp.Message.SenderID)
	}
	if resp.Message.ReceiverID != "alice" || resp.Message.Content != "hello" {
		t.Fatalf("unexpected message: %+v", resp.Message)
	}
	if resp.Delivered != 0 {
		t.Fatalf("expected 0 live deliveries, got %d", resp.Delivered)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected message to be persisted")
	}
}

func TestMessageHandler_SendInvalidBody(t *testing.T) {
	r := newMessageRouter(newMockMessageRepo(), "bob")

	for _, body := range []string{`{}`, `{"receiver_id": "alice"}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestMessageHandler_Inbox(t *testing.T) {
	repo := newMockMessageRepo()
	_ = repo.Create(context.Background(), domain.Message{ID: "m1", SenderID: "bob", ReceiverID: "alice", Content: "hi"})
	_ = repo.Create(context.Background(), domain.Message{ID: "m2", SenderID: "carol", ReceiverID: "alice", Content: "hey"})
	_ = repo.Create(context.Background(), domain.Message{ID: "m3", SenderID: "alice", ReceiverID: "bob", Content: "yo"})
	r := newMessageRouter(repo, "alice")

	req := httptest.NewRequest(http.MethodGet, "/messages/inbox/alice", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error decoding response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
}

func TestMessageHandler_MarkRead(t *testing.T) {
	repo := newMockMessageRepo()
	_ = repo.Create(context.Background(), domain.Message{ID: "m1", SenderID: "bob", ReceiverID: "alice", Content: "hi"})
	r := newMessageRouter(repo, "alice")

	req := httptest.NewRequest(http.MethodPatch, "/messages/read/m1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message domain.Message `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected error decoding response: %v", err)
	}
	if !resp.Message.IsRead {
		t.Fatalf("expected message to be marked as read")
	}
}

func TestMessageHandler_MarkReadNotFound(t *testing.T) {
	r := newMessageRouter(newMockMessageRepo(), "alice")

	req := httptest.NewRequest(http.MethodPatch, "/messages/read/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
