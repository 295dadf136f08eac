package challenge

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-process storage. Atomicity of
// Consume and IncrementAttempts comes from the store mutex; suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]*Challenge
	ticker     *time.Ticker
	done       chan struct{}
}

// NewMemoryStore creates a new in-memory challenge store. A positive
// cleanupInterval starts a background janitor that reclaims expired
// challenges; expiry is still enforced lazily either way.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		challenges: make(map[string]*Challenge),
		done:       make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

func (m *MemoryStore) Save(ctx context.Context, ch *Challenge) error {
	if ch == nil || ch.Token == "" {
		return ErrInvalidChallenge
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	chCopy := *ch
	m.challenges[ch.Token] = &chCopy
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Challenge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ch, exists := m.challenges[token]
	if !exists {
		return nil, ErrChallengeNotFound
	}

	chCopy := *ch
	return &chCopy, nil
}

func (m *MemoryStore) IncrementAttempts(ctx context.Context, token string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, exists := m.challenges[token]
	if !exists {
		return 0, ErrChallengeNotFound
	}

	ch.Attempts++
	return ch.Attempts, nil
}

func (m *MemoryStore) Consume(ctx context.Context, token string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch, exists := m.challenges[token]
	if !exists {
		return false, ErrChallengeNotFound
	}
	if ch.ConsumedAt != nil {
		return false, nil
	}

	consumedAt := at
	ch.ConsumedAt = &consumedAt
	return true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.challenges, token)
	return nil
}

func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, ch := range m.challenges {
		if now.After(ch.ExpiresAt) {
			delete(m.challenges, token)
		}
	}

	return nil
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
