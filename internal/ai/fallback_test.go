package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludtotal/agendabot/pkg/logging"
)

type stubClient struct {
	resp  Response
	err   error
	calls int
}

func (s *stubClient) Complete(ctx context.Context, req Request) (Response, error) {
	s.calls++
	return s.resp, s.err
}

func TestFallbackUsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubClient{resp: Response{Text: "primary"}}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	client := NewFallbackClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "primary", resp.Text)
	assert.Zero(t, fallback.calls)
}

func TestFallbackKicksInOnPrimaryFailure(t *testing.T) {
	primary := &stubClient{err: errors.New("rate limited")}
	fallback := &stubClient{resp: Response{Text: "fallback"}}
	client := NewFallbackClient(primary, fallback, logging.Default())

	resp, err := client.Complete(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "fallback", resp.Text)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestFallbackReturnsPrimaryErrorWithoutFallback(t *testing.T) {
	wantErr := errors.New("rate limited")
	client := NewFallbackClient(&stubClient{err: wantErr}, nil, logging.Default())

	_, err := client.Complete(context.Background(), Request{})

	assert.ErrorIs(t, err, wantErr)
}

func TestFallbackReturnsFallbackErrorWhenBothFail(t *testing.T) {
	fallbackErr := errors.New("also down")
	client := NewFallbackClient(
		&stubClient{err: errors.New("down")},
		&stubClient{err: fallbackErr},
		logging.Default(),
	)

	_, err := client.Complete(context.Background(), Request{})

	assert.ErrorIs(t, err, fallbackErr)
}
