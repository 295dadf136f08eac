package challenge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mfa:challenge:"

// casRetries bounds optimistic-transaction retries when WATCH detects a
// concurrent modification of the same token.
const casRetries = 4

// RedisStore implements Store on top of Redis. Challenges are stored as
// JSON under a TTL-bearing key; mutations use optimistic WATCH transactions
// so concurrent Consume and IncrementAttempts calls on the same token
// resolve to exactly one winner.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed challenge store.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, ErrNilRedisClient
	}
	return &RedisStore{client: client}, nil
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

func (s *RedisStore) Save(ctx context.Context, ch *Challenge) error {
	if ch == nil || ch.Token == "" {
		return ErrInvalidChallenge
	}

	data, err := json.Marshal(ch)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	ttl := time.Until(ch.ExpiresAt)
	if ttl <= 0 {
		return ErrInvalidChallenge
	}

	if err := s.client.Set(ctx, redisKey(ch.Token), data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Challenge, error) {
	data, err := s.client.Get(ctx, redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrChallengeNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var ch Challenge
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &ch, nil
}

func (s *RedisStore) IncrementAttempts(ctx context.Context, token string) (int, error) {
	var count int
	err := s.update(ctx, token, func(ch *Challenge) error {
		ch.Attempts++
		count = ch.Attempts
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string, at time.Time) (bool, error) {
	won := false
	err := s.update(ctx, token, func(ch *Challenge) error {
		if ch.ConsumedAt != nil {
			return errAlreadyConsumed
		}
		consumedAt := at
		ch.ConsumedAt = &consumedAt
		won = true
		return nil
	})
	if errors.Is(err, errAlreadyConsumed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return won, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts challenge keys via their TTL.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

var errAlreadyConsumed = errors.New("challenge already consumed")

// update applies fn to the stored challenge inside a WATCH transaction,
// preserving the key's remaining TTL. Retries on transaction conflicts.
func (s *RedisStore) update(ctx context.Context, token string, fn func(*Challenge) error) error {
	key := redisKey(token)

	for attempt := 0; attempt < casRetries; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				return err
			}

			var ch Challenge
			if err := json.Unmarshal(data, &ch); err != nil {
				return err
			}

			if err := fn(&ch); err != nil {
				return err
			}

			updated, err := json.Marshal(&ch)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, updated, redis.KeepTTL)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, redis.Nil) {
			return ErrChallengeNotFound
		}
		if errors.Is(err, errAlreadyConsumed) {
			return errAlreadyConsumed
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	}

	return ErrConcurrentUpdate
}
