package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// ErrVisionUnsupported is returned by providers that cannot read images.
var ErrVisionUnsupported = errors.New("llm provider does not accept images")

// ImagePart is an inline image attached to a message.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

type Message struct {
	Role    string
	Content string
	Images  []ImagePart
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
