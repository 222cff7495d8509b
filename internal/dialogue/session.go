package dialogue

import "github.com/saludtotal/agendabot/internal/ai"

// Step identifies where a session is inside the capture sequence.
type Step string

const (
	// StepIdle means no booking is in progress; the engine routes keywords.
	StepIdle Step = ""

	// Menu-driven capture sequence.
	StepAskName  Step = "ask_name"
	StepAskPhone Step = "ask_phone"
	StepAskEmail Step = "ask_email"
	StepDate     Step = "select_date"
	StepTime     Step = "select_time"

	// AI-assisted capture sequence.
	StepAIName        Step = "ai_ask_name"
	StepAIDateConfirm Step = "ai_confirm_date"
	StepAIPhone       Step = "ai_ask_phone"
	StepAIEmail       Step = "ai_ask_email"
)

// Session is the accumulated state of one booking conversation. It is
// created on the first message from a sender, mutated only by the dialogue
// steps, and cleared when a booking completes.
type Session struct {
	Step Step `json:"step"`

	Service      string `json:"service,omitempty"`
	PatientName  string `json:"patientName,omitempty"`
	PatientPhone string `json:"patientPhone,omitempty"`
	PatientEmail string `json:"patientEmail,omitempty"`

	SelectedDate string `json:"selectedDate,omitempty"` // 2006-01-02
	SelectedTime string `json:"selectedTime,omitempty"` // 15:04

	// AvailableSlots caches the resolver output for SelectedDate; the time
	// step only accepts values present here. Changing the date replaces it.
	AvailableSlots []string `json:"availableSlots,omitempty"`

	// CandidateStart is the raw date/time string the model inferred in the
	// AI-assisted flow. Stored unvalidated until JSON extraction.
	CandidateStart string `json:"candidateStart,omitempty"`

	// Transcript feeds conversational context to the LLM prompts. Only the
	// AI-assisted flow reads it.
	Transcript []ai.Message `json:"transcript,omitempty"`
}

// SetDate records the chosen date with its freshly computed slots, dropping
// any previously selected time. Slots cached for another date must never
// survive a date change.
func (s *Session) SetDate(date string, slots []string) {
	s.SelectedDate = date
	s.AvailableSlots = slots
	s.SelectedTime = ""
}

// HasSlot reports whether t is one of the cached available slots.
func (s *Session) HasSlot(t string) bool {
	for _, slot := range s.AvailableSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// AppendTranscript adds one turn to the rolling transcript.
func (s *Session) AppendTranscript(role, content string) {
	s.Transcript = append(s.Transcript, ai.Message{Role: role, Content: content})
}
