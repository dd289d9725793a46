package gateways

import "context"

// Prompt is a single system + user exchange
type Prompt struct {
	System string
	User   string
}

// TextGenerator is the external text-generation collaborator
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
