package storage

import "time"

// Event kinds recorded in the activity log.
const (
	KindChat     = "chat"
	KindImage    = "image"
	KindGenerate = "generate"
	KindPublish  = "publish"
	KindReset    = "reset"
)

// Event is one completed operation for a user. Events are appended in
// chronological order and never rewritten.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	UserID            string    `json:"user_id"`
	Kind              string    `json:"kind"`
	UserMessage       string    `json:"user_message,omitempty"`
	AssistantResponse string    `json:"assistant_response,omitempty"`
}

// Recorder abstracts persistence of activity events.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}
