package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/session-service/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a session ID.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// SnapshotStore keeps the latest state snapshot per session in Redis with a
// TTL, so a re-rendered or reconnecting UI can re-attach to a session owned
// by another process without re-initializing it.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotStore(client *redis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *SnapshotStore) Save(ctx context.Context, snapshot *models.SessionSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key(snapshot.SessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Get(ctx context.Context, sessionID string) (*models.SessionSnapshot, error) {
	payload, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	var snapshot models.SessionSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) key(sessionID string) string {
	return "assessment:session:" + sessionID
}
