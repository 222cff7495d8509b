package dialogue

import (
	"context"
	"strings"
	"time"

	"github.com/saludtotal/agendabot/internal/ai"
	"github.com/saludtotal/agendabot/internal/observability/metrics"
	"github.com/saludtotal/agendabot/pkg/logging"
)

// Seller answers free-form questions that no keyword or capture step claims,
// using the clinic FAQ prompt over the running transcript.
type Seller struct {
	llm     ai.Client
	loc     *time.Location
	now     func() time.Time
	logger  *logging.Logger
	metrics *metrics.BotMetrics
}

func NewSeller(llm ai.Client, loc *time.Location, logger *logging.Logger, m *metrics.BotMetrics) *Seller {
	if llm == nil {
		panic("dialogue: llm client cannot be nil")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Seller{llm: llm, loc: loc, now: time.Now, logger: logger, metrics: m}
}

// Reply generates the assistant's answer and splits it into one message per
// sentence so the channel delivers it the way a person types.
func (s *Seller) Reply(ctx context.Context, session *Session) []Reply {
	resp, err := s.llm.Complete(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: sellerPrompt(session.Transcript, s.now().In(s.loc))},
		},
	})
	if err != nil {
		s.metrics.ObserveLLMCall("seller", "error")
		s.logger.Error("seller reply failed", "error", err)
		return []Reply{TextReply(msgDefault)}
	}
	s.metrics.ObserveLLMCall("seller", "ok")

	session.AppendTranscript(ai.RoleAssistant, resp.Text)

	var replies []Reply
	for _, chunk := range splitSentences(resp.Text) {
		replies = append(replies, TextReply(chunk))
	}
	if len(replies) == 0 {
		replies = []Reply{TextReply(msgDefault)}
	}
	return replies
}

// splitSentences breaks text at sentence-ending periods followed by
// whitespace, but leaves decimal points (as in "1.5" or "10.000") intact.
func splitSentences(text string) []string {
	var chunks []string
	runes := []rune(strings.TrimSpace(text))
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' {
			continue
		}
		if i+1 >= len(runes) || (runes[i+1] != ' ' && runes[i+1] != '\n') {
			continue
		}
		if i > 0 && runes[i-1] >= '0' && runes[i-1] <= '9' {
			continue
		}
		chunk := strings.TrimSpace(string(runes[start : i+1]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		chunks = append(chunks, tail)
	}
	return chunks
}
