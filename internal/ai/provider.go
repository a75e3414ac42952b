package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Provider is a language-model backend. Failures are opaque to callers;
// retry policy, if any, lives behind the provider.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
