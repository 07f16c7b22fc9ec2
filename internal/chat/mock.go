package chat

import "context"

// MockCompleter echoes a canned reply and records conversations, for tests.
type MockCompleter struct {
	Reply         string
	Conversations [][]Message
}

func NewMockCompleter(reply string) *MockCompleter {
	if reply == "" {
		reply = "Hello! How can I help you today?"
	}
	return &MockCompleter{Reply: reply}
}

func (m *MockCompleter) Complete(_ context.Context, messages []Message) (Message, error) {
	m.Conversations = append(m.Conversations, messages)
	return Message{Role: "assistant", Content: m.Reply}, nil
}
