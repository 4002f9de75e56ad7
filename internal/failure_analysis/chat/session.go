package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

const (
	sessionKeyPrefix = "fa:chat:"     // fa:chat:{session_id} -> JSON []Message
	sessionTTL       = 24 * time.Hour // refreshed on every save
)

// SessionStore holds per-session conversation history for the serving layer.
type SessionStore interface {
	Get(ctx context.Context, id string) ([]Message, error)
	Save(ctx context.Context, id string, history []Message) error
}

// MemorySessionStore keeps sessions in process; each server owns its own instance.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]Message
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string][]Message{}}
}

func (m *MemorySessionStore) Get(_ context.Context, id string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return append([]Message(nil), h...), nil
}

func (m *MemorySessionStore) Save(_ context.Context, id string, history []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = append([]Message(nil), history...)
	return nil
}

// RedisSessionStore stores history as JSON with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) Get(ctx context.Context, id string) ([]Message, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat session: %w", err)
	}
	return history, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, id string, history []Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal chat session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+id, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save chat session: %w", err)
	}
	return nil
}
