package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/saludtotal/agendabot/internal/dialogue"
	"github.com/saludtotal/agendabot/internal/messaging/metaclient"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/pkg/logging"
)

type dialogueEngine interface {
	HandleMessage(ctx context.Context, in dialogue.Inbound) ([]dialogue.Reply, error)
}

type messageSender interface {
	SendText(ctx context.Context, to, body string) (*metaclient.MessageResponse, error)
	SendButtons(ctx context.Context, to, body string, buttons []metaclient.Button) (*metaclient.MessageResponse, error)
	SendList(ctx context.Context, to string, list metaclient.List) (*metaclient.MessageResponse, error)
}

type signatureVerifier interface {
	VerifyWebhookSignature(signature string, payload []byte) error
}

// WebhookHandler receives Meta WhatsApp webhook traffic: the subscription
// handshake on GET and inbound messages on POST.
type WebhookHandler struct {
	engine      dialogueEngine
	sender      messageSender
	verifier    signatureVerifier
	verifyToken string
	logger      *logging.Logger
	metrics     *metrics.BotMetrics
}

type WebhookConfig struct {
	Engine      dialogueEngine
	Sender      messageSender
	Verifier    signatureVerifier // optional; nil skips signature checks
	VerifyToken string
	Logger      *logging.Logger
	Metrics     *metrics.BotMetrics
}

func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Engine == nil {
		panic("handlers: dialogue engine cannot be nil")
	}
	if cfg.Sender == nil {
		panic("handlers: message sender cannot be nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WebhookHandler{
		engine:      cfg.Engine,
		sender:      cfg.Sender,
		verifier:    cfg.Verifier,
		verifyToken: cfg.VerifyToken,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
}

// Verify answers Meta's webhook subscription handshake.
func (h *WebhookHandler) Verify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode != "subscribe" || h.verifyToken == "" || token != h.verifyToken {
		h.logger.Warn("webhook verification rejected", "mode", mode)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, challenge)
}

// Receive processes an inbound webhook delivery. Meta retries deliveries
// that don't get a 200, so dispatch failures for individual messages are
// logged and acknowledged anyway.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if h.verifier != nil {
		if err := h.verifier.VerifyWebhookSignature(r.Header.Get("X-Hub-Signature-256"), body); err != nil {
			h.logger.Warn("invalid webhook signature", "error", err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.Object != "whatsapp_business_account" {
		http.Error(w, "unknown webhook object", http.StatusNotFound)
		return
	}

	for _, in := range payload.inboundMessages() {
		h.dispatch(r.Context(), in)
	}
	if h.metrics != nil {
		h.metrics.ObserveWebhookLatency("messages", time.Since(start).Seconds())
	}

	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "EVENT_RECEIVED")
}

func (h *WebhookHandler) dispatch(ctx context.Context, in dialogue.Inbound) {
	replies, err := h.engine.HandleMessage(ctx, in)
	if err != nil {
		h.logger.Error("dialogue dispatch failed", "from", in.From, "error", err)
		return
	}
	h.deliver(ctx, in.From, replies)
}

// deliver sends replies in order; a failed send aborts the rest so the user
// never sees a later message without its predecessor.
func (h *WebhookHandler) deliver(ctx context.Context, to string, replies []dialogue.Reply) {
	for _, reply := range replies {
		var err error
		switch {
		case reply.List != nil:
			_, err = h.sender.SendList(ctx, to, toMetaList(reply.List))
		case len(reply.Buttons) > 0:
			_, err = h.sender.SendButtons(ctx, to, reply.Text, toMetaButtons(reply.Buttons))
		default:
			_, err = h.sender.SendText(ctx, to, reply.Text)
		}
		if err != nil {
			h.logger.Error("failed to send reply", "to", to, "error", err)
			return
		}
	}
}

func toMetaButtons(buttons []dialogue.Button) []metaclient.Button {
	out := make([]metaclient.Button, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, metaclient.Button{ID: b.ID, Title: b.Body})
	}
	return out
}

func toMetaList(list *dialogue.ListMenu) metaclient.List {
	out := metaclient.List{
		Header:     list.Header,
		Body:       list.Body,
		Footer:     list.Footer,
		ButtonText: list.ButtonText,
	}
	for _, section := range list.Sections {
		ms := metaclient.ListSection{Title: section.Title}
		for _, row := range section.Rows {
			ms.Rows = append(ms.Rows, metaclient.ListRow{ID: row.ID, Title: row.Title})
		}
		out.Sections = append(out.Sections, ms)
	}
	return out
}

// Wire shapes of the Meta webhook delivery. Only text bodies and
// interactive replies are extracted; statuses and media are ignored.

type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		Type        string `json:"type"`
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// inboundMessages flattens the delivery into dialogue inputs. Interactive
// replies surface the selected row/button id as the message body, matching
// what the dialogue's menus expect back.
func (p *webhookPayload) inboundMessages() []dialogue.Inbound {
	var out []dialogue.Inbound
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				body := ""
				switch msg.Type {
				case "text":
					body = msg.Text.Body
				case "interactive":
					if msg.Interactive.ListReply.ID != "" {
						body = msg.Interactive.ListReply.ID
					} else {
						body = msg.Interactive.ButtonReply.Title
					}
				default:
					continue
				}
				if msg.From == "" || body == "" {
					continue
				}
				out = append(out, dialogue.Inbound{From: msg.From, Body: body})
			}
		}
	}
	return out
}
