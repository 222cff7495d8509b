package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/saludtotal/agendabot/internal/bookings"
	"github.com/saludtotal/agendabot/pkg/logging"
)

type sessionLister interface {
	ActiveSessions(ctx context.Context) ([]string, error)
}

type bookingReader interface {
	Recent(ctx context.Context, limit int) ([]bookings.Record, error)
}

// AdminHandler exposes read-only operational endpoints behind admin auth.
type AdminHandler struct {
	sessions sessionLister
	bookings bookingReader // nil when no booking log is configured
	logger   *logging.Logger
}

func NewAdminHandler(sessions sessionLister, bookings bookingReader, logger *logging.Logger) *AdminHandler {
	if sessions == nil {
		panic("handlers: session lister cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminHandler{sessions: sessions, bookings: bookings, logger: logger}
}

// ListSessions returns the senders with an in-flight conversation.
func (h *AdminHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	senders, err := h.sessions.ActiveSessions(r.Context())
	if err != nil {
		h.logger.Error("failed to list sessions", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"count":   len(senders),
		"senders": senders,
	})
}

type bookingView struct {
	ID              string    `json:"id"`
	PatientName     string    `json:"patientName"`
	PatientPhone    string    `json:"patientPhone"`
	PatientEmail    string    `json:"patientEmail,omitempty"`
	Service         string    `json:"service"`
	ScheduledFor    time.Time `json:"scheduledFor"`
	CalendarEventID string    `json:"calendarEventId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ListBookings returns the most recent bookings from the booking log.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if h.bookings == nil {
		http.Error(w, "booking log not configured", http.StatusServiceUnavailable)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			http.Error(w, "limit must be 1-500", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.bookings.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list bookings", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	views := make([]bookingView, 0, len(records))
	for _, rec := range records {
		views = append(views, bookingView{
			ID:              rec.ID.String(),
			PatientName:     rec.PatientName,
			PatientPhone:    rec.PatientPhone,
			PatientEmail:    rec.PatientEmail,
			Service:         rec.Service,
			ScheduledFor:    rec.ScheduledFor,
			CalendarEventID: rec.CalendarEventID,
			CreatedAt:       rec.CreatedAt,
		})
	}
	writeJSON(w, map[string]any{
		"count":    len(views),
		"bookings": views,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
