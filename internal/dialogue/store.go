package dialogue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore persists per-sender sessions in Redis as JSON blobs. Sessions
// are independent; each sender owns exactly one key.
type SessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewSessionStore builds a store. ttl <= 0 falls back to 24 hours.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if client == nil {
		panic("dialogue: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("agendabot.internal.dialogue.store"),
	}
}

func sessionKey(from string) string {
	return fmt.Sprintf("session:%s", from)
}

// Load returns the sender's session, or a fresh empty one when none exists.
func (s *SessionStore) Load(ctx context.Context, from string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "dialogue.load_session")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(from)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &Session{}, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("dialogue: failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("dialogue: failed to decode session: %w", err)
	}
	return &session, nil
}

// Save persists the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, from string, session *Session) error {
	ctx, span := s.tracer.Start(ctx, "dialogue.save_session")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("dialogue: failed to marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(from), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("dialogue: failed to persist session: %w", err)
	}
	return nil
}

// Clear destroys the sender's session.
func (s *SessionStore) Clear(ctx context.Context, from string) error {
	ctx, span := s.tracer.Start(ctx, "dialogue.clear_session")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(from)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("dialogue: failed to clear session: %w", err)
	}
	return nil
}

// ActiveSessions lists the sender ids with a live session.
func (s *SessionStore) ActiveSessions(ctx context.Context) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "dialogue.scan_sessions")
	defer span.End()

	var senders []string
	iter := s.redis.Scan(ctx, 0, sessionKey("*"), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		senders = append(senders, key[len("session:"):])
	}
	if err := iter.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("dialogue: failed to scan sessions: %w", err)
	}
	return senders, nil
}
