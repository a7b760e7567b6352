package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/ai-mommy/photobooth-bot/types"
)

// RedisPendingStore keeps the "user owes us an input" records. Keys carry a
// TTL, but expiry is validated on read as well: Redis eviction is advisory.
type RedisPendingStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisPendingStore(redisClient *RedisClient, ttl time.Duration) *RedisPendingStore {
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &RedisPendingStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisPendingStore) key(userID int64, kind types.InputKind) string {
	return s.client.generateKey("awaiting", string(kind), fmt.Sprintf("%d", userID))
}

// Await sets or overwrites the pending record for (userID, kind).
func (s *RedisPendingStore) Await(state *types.PendingInput, ttl time.Duration) error {
	if state == nil || state.UserID == 0 || state.Kind == "" {
		return errors.New("pending input: missing user or kind")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := time.Now().UTC()
	state.CreatedAt = now
	state.ExpiresAt = now.Add(ttl)

	return s.client.Set(s.key(state.UserID, state.Kind), state, ttl)
}

// Consume atomically reads and clears the record, so a message is handed to
// at most one consumer. Absent or expired records yield (nil, nil).
func (s *RedisPendingStore) Consume(userID int64, kind types.InputKind) (*types.PendingInput, error) {
	var state types.PendingInput
	err := s.client.GetDel(s.key(userID, kind), &state)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if state.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return &state, nil
}

func (s *RedisPendingStore) IsAwaiting(userID int64, kind types.InputKind) (bool, error) {
	var state types.PendingInput
	err := s.client.Get(s.key(userID, kind), &state)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}

	return !state.Expired(time.Now().UTC()), nil
}
