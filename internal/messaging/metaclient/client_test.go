package metaclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const sendAck = `{"messaging_product":"whatsapp","contacts":[{"input":"+56912345678","wa_id":"56912345678"}],"messages":[{"id":"wamid.ABC123"}]}`

func newTestClient(t *testing.T, server *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = server.URL
	if cfg.Token == "" {
		cfg.Token = "token"
	}
	if cfg.NumberID == "" {
		cfg.NumberID = "1055512345"
	}
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSendText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v22.0/1055512345/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("unexpected auth header %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		if payload["type"] != "text" || payload["to"] != "+56912345678" {
			t.Fatalf("unexpected payload: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sendAck))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	resp, err := client.SendText(context.Background(), "+56912345678", "Hola")
	if err != nil {
		t.Fatalf("send text: %v", err)
	}
	if resp.ID() != "wamid.ABC123" {
		t.Fatalf("unexpected message id %q", resp.ID())
	}
}

func TestSendButtonsPayloadShape(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Write([]byte(sendAck))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	_, err := client.SendButtons(context.Background(), "+56912345678", "¿Necesitas algo más?", []Button{
		{ID: "again", Title: "📅 Agendar otra cita"},
		{ID: "bye", Title: "❌ No, gracias"},
	})
	if err != nil {
		t.Fatalf("send buttons: %v", err)
	}

	var payload outboundMessage
	if err := json.Unmarshal(captured, &payload); err != nil {
		t.Fatalf("unmarshal captured payload: %v", err)
	}
	if payload.Type != "interactive" || payload.Interactive == nil {
		t.Fatalf("expected interactive payload: %s", captured)
	}
	if payload.Interactive.Type != "button" {
		t.Fatalf("expected button interactive, got %s", payload.Interactive.Type)
	}
	if len(payload.Interactive.Action.Buttons) != 2 {
		t.Fatalf("expected 2 buttons, got %d", len(payload.Interactive.Action.Buttons))
	}
	if payload.Interactive.Action.Buttons[0].Reply.ID != "again" {
		t.Fatalf("unexpected button id %q", payload.Interactive.Action.Buttons[0].Reply.ID)
	}
}

func TestSendButtonsRejectsTooMany(t *testing.T) {
	client := newTestClient(t, httptest.NewServer(http.NotFoundHandler()), Config{})
	buttons := []Button{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}}
	if _, err := client.SendButtons(context.Background(), "+56912345678", "x", buttons); err == nil {
		t.Fatalf("expected error for 4 buttons")
	}
}

func TestSendListPayloadShape(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Write([]byte(sendAck))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{})
	_, err := client.SendList(context.Background(), "+56912345678", List{
		Header:     "Fechas Disponibles",
		Body:       "Selecciona una fecha",
		ButtonText: "Ver Fechas",
		Sections: []ListSection{{
			Title: "Fechas",
			Rows:  []ListRow{{ID: "2026-09-02", Title: "📅 miércoles 02/09"}},
		}},
	})
	if err != nil {
		t.Fatalf("send list: %v", err)
	}
	if !strings.Contains(string(captured), `"button":"Ver Fechas"`) {
		t.Fatalf("expected list button text in payload: %s", captured)
	}
	if !strings.Contains(string(captured), `"id":"2026-09-02"`) {
		t.Fatalf("expected row id in payload: %s", captured)
	}
}

func TestInvokeRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"message":"temporary glitch","code":1}}`))
			return
		}
		w.Write([]byte(sendAck))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{MaxRetries: 2, Backoff: time.Millisecond})
	if _, err := client.SendText(context.Background(), "+56912345678", "Hola"); err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestInvokeDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"(#131030) Recipient phone number not in allowed list","code":131030,"fbtrace_id":"Az8x"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, Config{MaxRetries: 3, Backoff: time.Millisecond})
	_, err := client.SendText(context.Background(), "+56912345678", "Hola")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "131030") {
		t.Fatalf("expected api error detail, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single call, got %d", calls.Load())
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	client, err := New(Config{Token: "token", NumberID: "1", AppSecret: "secret"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	payload := []byte(`{"object":"whatsapp_business_account"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(payload)
	signature := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	if err := client.VerifyWebhookSignature(signature, payload); err != nil {
		t.Fatalf("expected valid signature: %v", err)
	}
	if err := client.VerifyWebhookSignature("sha256=deadbeef", payload); err == nil {
		t.Fatalf("expected signature mismatch")
	}
	if err := client.VerifyWebhookSignature("", payload); err == nil {
		t.Fatalf("expected missing header error")
	}
}

func TestNewClientDefaultsAndValidation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected token validation error")
	}
	if _, err := New(Config{Token: "token"}); err == nil {
		t.Fatalf("expected number id validation error")
	}
	client, err := New(Config{Token: "token", NumberID: "1"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", client.baseURL)
	}
	if client.apiVersion != defaultAPIVersion {
		t.Fatalf("expected default api version, got %s", client.apiVersion)
	}
	if client.httpClient == nil || client.httpClient.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout")
	}
}
