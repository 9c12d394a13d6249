package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-intake/internal/llm"
	"clinic-intake/pkg"
)

type stubLLM struct {
	reply    string
	err      error
	received []llm.Message
}

func (s *stubLLM) Chat(_ context.Context, messages []llm.Message) (string, error) {
	s.received = messages
	return s.reply, s.err
}

func TestReplyBuildsMessageHistory(t *testing.T) {
	stub := &stubLLM{reply: "How long have you had the pain?"}
	chat := NewIntakeChat(stub)

	history := []pkg.Message{
		{Role: pkg.RoleAssistant, Content: FirstMessage},
		{Role: pkg.RolePatient, Content: "I'm Maria"},
	}
	reply, err := chat.Reply(context.Background(), history, "my chest hurts")
	require.NoError(t, err)
	assert.Equal(t, "How long have you had the pain?", reply)

	require.Len(t, stub.received, 4)
	assert.Equal(t, "system", stub.received[0].Role)
	assert.Equal(t, SystemPrompt, stub.received[0].Content)
	assert.Equal(t, "assistant", stub.received[1].Role)
	assert.Equal(t, "user", stub.received[2].Role)
	assert.Equal(t, "user", stub.received[3].Role)
	assert.Equal(t, "my chest hurts", stub.received[3].Content)
}

func TestReplyFallsBackOnError(t *testing.T) {
	stub := &stubLLM{err: fmt.Errorf("rate limited")}
	chat := NewIntakeChat(stub)

	reply, err := chat.Reply(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestReplyFallsBackOnEmptyCompletion(t *testing.T) {
	stub := &stubLLM{reply: ""}
	chat := NewIntakeChat(stub)

	reply, err := chat.Reply(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}
