package dialogue

import (
	"context"
	"strings"

	"github.com/saludtotal/agendabot/internal/ai"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// StepResult is the outcome of feeding one user message to a capture step.
// Advance=false means the input was rejected and the session did not move;
// Clear=true means the booking completed and the session must be destroyed.
type StepResult struct {
	Advance bool
	Clear   bool
	Replies []Reply
}

// Strategy is one interchangeable implementation of the booking capture
// sequence. Exactly one strategy is active per deployment.
type Strategy interface {
	// Start opens the capture sequence for the given service.
	Start(ctx context.Context, s *Session, service string) StepResult
	// Next consumes one user message for the session's current step.
	Next(ctx context.Context, s *Session, body string) StepResult
}

// SellerResponder answers general questions conversationally. Only the
// AI-assisted deployment wires one.
type SellerResponder interface {
	Reply(ctx context.Context, s *Session) []Reply
}

// Engine routes each inbound message: keyword intents while idle, the active
// strategy while a capture sequence is in progress. One message yields at
// most one state transition; the session is persisted after every turn.
type Engine struct {
	store    *SessionStore
	strategy Strategy
	seller   SellerResponder
	logger   *logging.Logger
	metrics  *metrics.BotMetrics
}

// NewEngine wires the dialogue engine. seller may be nil (menu variant).
func NewEngine(store *SessionStore, strategy Strategy, seller SellerResponder, logger *logging.Logger, m *metrics.BotMetrics) *Engine {
	if store == nil {
		panic("dialogue: session store cannot be nil")
	}
	if strategy == nil {
		panic("dialogue: strategy cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:    store,
		strategy: strategy,
		seller:   seller,
		logger:   logger,
		metrics:  m,
	}
}

// HandleMessage processes one inbound message and returns the replies to
// send back on the channel.
func (e *Engine) HandleMessage(ctx context.Context, in Inbound) ([]Reply, error) {
	session, err := e.store.Load(ctx, in.From)
	if err != nil {
		return nil, err
	}

	// The AI-assisted variant keeps a rolling transcript of everything the
	// user writes so prompts carry conversational context.
	if e.seller != nil {
		session.AppendTranscript(ai.RoleUser, in.Body)
	}

	var result StepResult
	if session.Step == StepIdle {
		result = e.routeIdle(ctx, session, in.Body)
	} else {
		result = e.strategy.Next(ctx, session, in.Body)
	}

	status := "rejected"
	if result.Advance {
		status = "advanced"
	}
	e.metrics.ObserveInbound(string(session.Step), status)

	if result.Clear {
		if err := e.store.Clear(ctx, in.From); err != nil {
			e.logger.Error("failed to clear session", "from", in.From, "error", err)
		}
	} else if err := e.store.Save(ctx, in.From, session); err != nil {
		return nil, err
	}
	return result.Replies, nil
}

// routeIdle matches keyword intents when no capture sequence is running.
func (e *Engine) routeIdle(ctx context.Context, s *Session, body string) StepResult {
	normalized := strings.ToLower(strings.TrimSpace(body))

	switch {
	case matchesAny(normalized, "hola", "buenas", "buenos dias", "buenos días", "buenas tardes", "buenas noches"):
		return StepResult{Advance: true, Replies: []Reply{welcomeMenu()}}

	case matchesAny(normalized, serviceOdontologiaID, "odontología", "odontologia", "🦷 odontología"):
		return e.strategy.Start(ctx, s, serviceOdontologia)

	case matchesAny(normalized, serviceKinesiologiaID, "kinesiología", "kinesiologia", "🏃 kinesiología"):
		return e.strategy.Start(ctx, s, serviceKinesiologia)

	case matchesAny(normalized, "📅 agendar otra cita", "agendar", "otra cita", "agendar hora"):
		return StepResult{Advance: true, Replies: []Reply{{
			Text: msgWelcome,
			Buttons: []Button{
				{ID: serviceOdontologiaID, Body: "🦷 Odontología"},
				{ID: serviceKinesiologiaID, Body: "🏃 Kinesiología"},
			},
		}}}

	case matchesAny(normalized, optionAsesorID, "asesor", "humano", "persona", "contacto", "llamar"):
		return StepResult{Advance: true, Replies: []Reply{TextReply(msgTransferToHuman)}}

	case matchesAny(normalized, optionPreciosID, "precios", "costo", "valor"):
		return StepResult{Advance: true, Replies: []Reply{TextReply(msgPrices)}}

	case matchesAny(normalized, optionUbicacionID, "ubicacion", "ubicación", "direccion", "dirección", "donde", "dónde", "llegar", "mapa"):
		return StepResult{Advance: true, Replies: []Reply{TextReply(msgLocation)}}

	case matchesAny(normalized, "❌ no, gracias", "no gracias", "no, gracias", "adios", "adiós", "chao", "chau"):
		return StepResult{Advance: true, Replies: []Reply{TextReply(msgFarewell)}}
	}

	if e.seller != nil {
		return StepResult{Advance: true, Replies: e.seller.Reply(ctx, s)}
	}
	return StepResult{Replies: []Reply{TextReply(msgDefault)}}
}

func matchesAny(normalized string, keywords ...string) bool {
	for _, kw := range keywords {
		if normalized == kw {
			return true
		}
	}
	return false
}

// welcomeMenu is the list menu greeting new conversations.
func welcomeMenu() Reply {
	return Reply{List: &ListMenu{
		Header:     "👋 ¡Hola! Bienvenido a Clínica Salud Total",
		Body:       "¿En qué servicio deseas agendar una cita?",
		Footer:     "Selecciona una opción para continuar",
		ButtonText: "Ver Servicios",
		Sections: []ListSection{
			{
				Title: "🦷 Agendar Cita",
				Rows: []ListRow{
					{ID: serviceOdontologiaID, Title: "Odontología"},
					{ID: serviceKinesiologiaID, Title: "Kinesiología"},
				},
			},
			{
				Title: "ℹ️ Más Información",
				Rows: []ListRow{
					{ID: optionAsesorID, Title: "👨‍💼 Hablar con asesor"},
					{ID: optionPreciosID, Title: "💰 Consultar precios"},
					{ID: optionUbicacionID, Title: "📍 Ver ubicación"},
				},
			},
		},
	}}
}
