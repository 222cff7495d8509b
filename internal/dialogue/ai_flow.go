package dialogue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/saludtotal/agendabot/internal/ai"
	"github.com/saludtotal/agendabot/internal/booking"
	"github.com/saludtotal/agendabot/internal/bookings"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/internal/validate"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// extractedStartLayout is the format the extraction prompt instructs the
// model to use for startDate.
const extractedStartLayout = "2006/01/02 15:04:05"

// dateInferenceModel is the model hint for the date-inference call; the
// extraction call rides the provider default.
const dateInferenceModel = "gpt-4"

// extractedBooking is the structured record the model is asked to emit.
type extractedBooking struct {
	StartDate   string `json:"startDate"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Interest    string `json:"interest"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// AIFlow is the AI-assisted booking strategy: the appointment date/time is
// inferred from the transcript instead of picked from menus, and the final
// record is extracted as JSON by a second prompt.
type AIFlow struct {
	llm     ai.Client
	writer  AppointmentWriter
	log     BookingLog
	loc     *time.Location
	now     func() time.Time
	logger  *logging.Logger
	metrics *metrics.BotMetrics
}

// NewAIFlow wires the AI-assisted strategy. log may be nil.
func NewAIFlow(llm ai.Client, writer AppointmentWriter, log BookingLog, loc *time.Location, logger *logging.Logger, m *metrics.BotMetrics) *AIFlow {
	if llm == nil {
		panic("dialogue: llm client cannot be nil")
	}
	if writer == nil {
		panic("dialogue: appointment writer cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AIFlow{
		llm:     llm,
		writer:  writer,
		log:     log,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
		metrics: m,
	}
}

// Start opens the capture sequence. The AI variant ignores the service menu
// and books whatever the transcript describes.
func (f *AIFlow) Start(ctx context.Context, s *Session, service string) StepResult {
	s.Service = service
	s.Step = StepAIName
	return StepResult{Advance: true, Replies: []Reply{
		TextReply(msgAIIntro),
		TextReply(msgAIAskName),
	}}
}

// Next consumes one user message for the current step.
func (f *AIFlow) Next(ctx context.Context, s *Session, body string) StepResult {
	switch s.Step {
	case StepAIName:
		return f.captureNameAndInferDate(ctx, s, body)
	case StepAIDateConfirm:
		return f.confirmDate(s)
	case StepAIPhone:
		return f.capturePhone(s, body)
	case StepAIEmail:
		return f.captureEmailAndExtract(ctx, s, body)
	default:
		f.logger.Warn("ai flow received unknown step", "step", s.Step)
		s.Step = StepIdle
		return StepResult{Replies: []Reply{TextReply(msgDefault)}}
	}
}

// captureNameAndInferDate stores the name and asks the model to infer a
// candidate date/time from the transcript. The model's raw answer is stored
// without format validation; it is only checked when the final JSON record
// is parsed.
func (f *AIFlow) captureNameAndInferDate(ctx context.Context, s *Session, body string) StepResult {
	s.PatientName = strings.TrimSpace(body)

	resp, err := f.llm.Complete(ctx, ai.Request{
		Model: dateInferenceModel,
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: datePrompt(s.Transcript, f.now().In(f.loc))},
		},
	})
	if err != nil {
		f.metrics.ObserveLLMCall("date_inference", "error")
		f.logger.Error("date inference failed", "error", err)
		return StepResult{Replies: []Reply{TextReply(msgAIExtractionFail)}}
	}
	f.metrics.ObserveLLMCall("date_inference", "ok")

	s.CandidateStart = resp.Text
	s.AppendTranscript(ai.RoleAssistant, resp.Text)
	s.Step = StepAIDateConfirm
	return StepResult{Advance: true, Replies: []Reply{
		TextReply(strings.Replace(msgAIConfirmDate, "{date}", resp.Text, 1)),
	}}
}

// confirmDate acknowledges the user's answer and moves on to the phone.
// The answer itself lands in the transcript, where the extraction prompt
// picks it up.
func (f *AIFlow) confirmDate(s *Session) StepResult {
	s.Step = StepAIPhone
	return StepResult{Advance: true, Replies: []Reply{TextReply(msgAIAskPhone)}}
}

func (f *AIFlow) capturePhone(s *Session, body string) StepResult {
	if !validate.ChileanPhone(body) {
		return StepResult{Replies: []Reply{TextReply(msgAIInvalidPhone)}}
	}
	s.PatientPhone = validate.FormatChileanPhone(body)
	s.Step = StepAIEmail
	return StepResult{Advance: true, Replies: []Reply{TextReply(msgAIAskEmail)}}
}

// captureEmailAndExtract runs the structured-extraction prompt and, when its
// output parses, writes the booking. A malformed response keeps the session
// on this step so the extraction can be retried with the next message.
func (f *AIFlow) captureEmailAndExtract(ctx context.Context, s *Session, body string) StepResult {
	s.PatientEmail = strings.TrimSpace(body)

	resp, err := f.llm.Complete(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: extractionPrompt(s.PatientName, s.CandidateStart, s.PatientEmail, s.PatientPhone)},
		},
	})
	if err != nil {
		f.metrics.ObserveLLMCall("extraction", "error")
		f.logger.Error("booking extraction failed", "error", err)
		return StepResult{Replies: []Reply{TextReply(msgAIExtractionFail)}}
	}
	f.metrics.ObserveLLMCall("extraction", "ok")

	var record extractedBooking
	if err := json.Unmarshal([]byte(stripJSONFences(resp.Text)), &record); err != nil {
		f.logger.Error("model emitted malformed booking JSON", "error", err)
		return StepResult{Replies: []Reply{TextReply(msgAIExtractionFail)}}
	}

	start, err := time.ParseInLocation(extractedStartLayout, record.StartDate, f.loc)
	if err != nil {
		f.logger.Error("model emitted unparseable startDate", "startDate", record.StartDate, "error", err)
		return StepResult{Replies: []Reply{TextReply(msgAIExtractionFail)}}
	}

	service := s.Service
	if service == "" {
		if record.Interest != "" && record.Interest != "n/a" {
			service = record.Interest
		} else {
			service = "Consulta"
		}
	}

	created := f.writer.Create(ctx, booking.Request{
		Date:    start.Format(validate.ISODateLayout),
		Time:    start.Format("15:04"),
		Name:    s.PatientName,
		Phone:   s.PatientPhone,
		Email:   s.PatientEmail,
		Service: service,
	})
	if created == nil {
		f.metrics.ObserveBooking("failed")
		return StepResult{Replies: []Reply{TextReply(msgAppointmentError)}}
	}
	f.metrics.ObserveBooking("created")

	if f.log != nil {
		if err := f.log.Record(ctx, bookings.Record{
			PatientName:     s.PatientName,
			PatientPhone:    s.PatientPhone,
			PatientEmail:    s.PatientEmail,
			Service:         service,
			ScheduledFor:    created.Start,
			CalendarEventID: created.ID,
		}); err != nil {
			f.logger.Error("failed to record booking", "error", err)
		}
	}

	s.Transcript = nil
	return StepResult{Advance: true, Clear: true, Replies: []Reply{TextReply(msgAIBooked)}}
}

// stripJSONFences removes a markdown code fence if the model wrapped its
// JSON in one.
func stripJSONFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
