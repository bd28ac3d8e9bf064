package cache

import (
	"context"
	"encoding/json"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"

	"propertyhub/internal/flow"
)

// AnswerStore persists eligibility answer sets in redis under the well-known
// "eligibility" namespace, one entry per session. Entries carry no TTL: the
// trail survives reloads until the user restarts the flow.
type AnswerStore struct {
	client *redisv9.Client
}

func NewAnswerStore(client *redisv9.Client) *AnswerStore {
	return &AnswerStore{client: client}
}

// Load returns the stored answer set for the session. The second return is
// false when nothing was stored. A stored-but-unparseable payload is
// returned as an error so the caller can decide how loudly to degrade.
func (s *AnswerStore) Load(ctx context.Context, sessionID string) (flow.AnswerSet, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get answers failed: %w", err)
	}

	var answers flow.AnswerSet
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		return nil, false, fmt.Errorf("unmarshal stored answers failed: %w", err)
	}
	return answers, true, nil
}

func (s *AnswerStore) Save(ctx context.Context, sessionID string, answers flow.AnswerSet) error {
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal answers failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set answers failed: %w", err)
	}
	return nil
}

func (s *AnswerStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete answers failed: %w", err)
	}
	return nil
}

// SessionState is the service-side bookkeeping that complements the answer
// set: where the session is, whether it terminated, and any dangerous option
// parked for confirmation.
type SessionState struct {
	Index   int           `json:"index"`
	Verdict string        `json:"verdict"`
	Pending *flow.Pending `json:"pending,omitempty"`
}

func (s *AnswerStore) LoadState(ctx context.Context, sessionID string) (*SessionState, error) {
	raw, err := s.client.Get(ctx, s.stateKey(sessionID)).Result()
	if err == redisv9.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session state failed: %w", err)
	}
	var state SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("unmarshal session state failed: %w", err)
	}
	return &state, nil
}

func (s *AnswerStore) SaveState(ctx context.Context, sessionID string, state SessionState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session state failed: %w", err)
	}
	if err := s.client.Set(ctx, s.stateKey(sessionID), payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set session state failed: %w", err)
	}
	return nil
}

func (s *AnswerStore) ClearState(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session state failed: %w", err)
	}
	return nil
}

func (s *AnswerStore) key(sessionID string) string {
	return fmt.Sprintf("eligibility:%s", sessionID)
}

func (s *AnswerStore) stateKey(sessionID string) string {
	return fmt.Sprintf("eligibility:session:%s", sessionID)
}
