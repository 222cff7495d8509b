package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/saludtotal/agendabot/internal/dialogue"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// FlowTestHandler drives the dialogue engine directly over HTTP, bypassing
// the WhatsApp channel. Meant for local development and smoke tests.
type FlowTestHandler struct {
	engine dialogueEngine
	logger *logging.Logger
}

func NewFlowTestHandler(engine dialogueEngine, logger *logging.Logger) *FlowTestHandler {
	if engine == nil {
		panic("handlers: dialogue engine cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FlowTestHandler{engine: engine, logger: logger}
}

type flowTestRequest struct {
	From string `json:"from"`
	Body string `json:"body"`
}

type flowTestResponse struct {
	Replies []dialogue.Reply `json:"replies"`
}

// Handle feeds one message through the engine and returns the replies that
// would have been sent.
func (h *FlowTestHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req flowTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.From == "" || req.Body == "" {
		http.Error(w, "from and body are required", http.StatusBadRequest)
		return
	}

	replies, err := h.engine.HandleMessage(r.Context(), dialogue.Inbound{From: req.From, Body: req.Body})
	if err != nil {
		h.logger.Error("flow test dispatch failed", "from", req.From, "error", err)
		http.Error(w, "dispatch failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flowTestResponse{Replies: replies})
}
