package core

import (
	"context"

	"clinic-intake/internal/llm"
	"clinic-intake/pkg"
)

// IntakeChat generates the assistant side of an intake conversation. It is
// the dialogue orchestrator around the triage engine: it decides what to say
// next, while classification and persistence stay with the coordinator.
type IntakeChat struct {
	LLM llm.Client
}

func NewIntakeChat(client llm.Client) *IntakeChat {
	return &IntakeChat{LLM: client}
}

// Reply generates the assistant's next turn given the stored history and the
// patient's latest message. On model failure a generic apology is returned
// along with the error so callers can log it without breaking the flow.
func (s *IntakeChat) Reply(ctx context.Context, history []pkg.Message, message string) (string, error) {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: SystemPrompt})
	for _, m := range history {
		role := "user"
		if m.Role == pkg.RoleAssistant {
			role = "assistant"
		}
		msgs = append(msgs, llm.Message{Role: role, Content: m.Content})
	}
	msgs = append(msgs, llm.Message{Role: "user", Content: message})

	resp, err := s.LLM.Chat(ctx, msgs)
	if err != nil {
		return FallbackReply, err
	}
	if resp == "" {
		return FallbackReply, nil
	}
	return resp, nil
}
