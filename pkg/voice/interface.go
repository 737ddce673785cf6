package voice

import (
	"context"
	"time"
)

// Call is what the hosted service hands back when a web call is created.
// Audio transport happens between the browser and WebCallURL; this process
// never touches it.
type Call struct {
	ID          string    `json:"id"`
	AssistantID string    `json:"assistantId"`
	WebCallURL  string    `json:"webCallUrl,omitempty"`
	ControlURL  string    `json:"-"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Client is the start/stop capability of a hosted voice agent.
// Implementations own the current call; Stop ends whatever Start began.
type Client interface {
	Start(ctx context.Context, assistantID string) (*Call, error)
	Stop(ctx context.Context) error
}
