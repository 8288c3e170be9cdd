package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// SessionRepository owns per-session TariffState persistence. Implementations
// must treat a missing session as "create lazily": Load returns a fresh
// default state rather than an error when the key is absent.
type SessionRepository interface {
	// Load retrieves the session state, creating a default one when absent.
	Load(ctx context.Context, sessionID string) (*TariffState, error)

	// Save persists the session state and refreshes its TTL.
	Save(ctx context.Context, sessionID string, state *TariffState) error

	// Delete removes the session state and its transcript.
	Delete(ctx context.Context, sessionID string) error

	// AppendTranscript appends one message (user utterance or engine reply)
	// to the session's audit transcript.
	AppendTranscript(ctx context.Context, sessionID string, message *schema.Message) error

	// Transcript returns the full audit transcript for a session.
	Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error)
}
