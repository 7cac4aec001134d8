package push

import "context"

// Message is the provider-independent push payload.
type Message struct {
	Title string
	Body  string
	Icon  string
	Data  map[string]string // carries at least "type" and "link"
}

// Sender delivers a message to a set of device tokens. It returns the tokens
// the provider rejected so the caller can prune them.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) (failed []string, err error)
}
