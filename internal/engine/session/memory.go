package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/customsbot-poc/server/internal/engine/model"
)

// MemorySessionRepository is the in-process implementation used by tests and
// single-node demos. It round-trips state through JSON so anything that would
// not survive Redis serialization does not survive here either.
type MemorySessionRepository struct {
	mu          sync.RWMutex
	states      map[string][]byte
	transcripts map[string][]*schema.Message
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		states:      map[string][]byte{},
		transcripts: map[string][]*schema.Message{},
	}
}

func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) (*model.TariffState, error) {
	r.mu.RLock()
	raw, ok := r.states[sessionID]
	r.mu.RUnlock()
	if !ok {
		return model.NewTariffState(), nil
	}

	var state model.TariffState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state: %w", err)
	}
	return &state, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, sessionID string, state *model.TariffState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	r.mu.Lock()
	r.states[sessionID] = b
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.states, sessionID)
	delete(r.transcripts, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) AppendTranscript(ctx context.Context, sessionID string, message *schema.Message) error {
	r.mu.Lock()
	r.transcripts[sessionID] = append(r.transcripts[sessionID], message)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Transcript(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*schema.Message, len(r.transcripts[sessionID]))
	copy(out, r.transcripts[sessionID])
	return out, nil
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
