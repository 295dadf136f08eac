package twofactor

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Storage using in-process maps. The store mutex
// makes ReplaceBackupCodes a true compare-and-swap; suitable for
// single-instance deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[uuid.UUID]*Secret
	codes   map[uuid.UUID][]string
}

// NewMemoryStore creates a new in-memory two-factor store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		secrets: make(map[uuid.UUID]*Secret),
		codes:   make(map[uuid.UUID][]string),
	}
}

func (m *MemoryStore) GetSecret(ctx context.Context, accountID uuid.UUID) (*Secret, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	secret, exists := m.secrets[accountID]
	if !exists {
		return nil, ErrSecretNotFound
	}

	secretCopy := *secret
	return &secretCopy, nil
}

func (m *MemoryStore) SaveSecret(ctx context.Context, secret *Secret) error {
	if secret == nil || secret.AccountID == uuid.Nil {
		return ErrInvalidAccountID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	secretCopy := *secret
	m.secrets[secret.AccountID] = &secretCopy
	return nil
}

func (m *MemoryStore) DeleteSecret(ctx context.Context, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.secrets, accountID)
	return nil
}

func (m *MemoryStore) GetBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.codes[accountID]), nil
}

func (m *MemoryStore) SaveBackupCodes(ctx context.Context, accountID uuid.UUID, hashes []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes[accountID] = slices.Clone(hashes)
	return nil
}

func (m *MemoryStore) ReplaceBackupCodes(ctx context.Context, accountID uuid.UUID, expected, replacement []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Equal(m.codes[accountID], expected) {
		return ErrConflict
	}

	m.codes[accountID] = slices.Clone(replacement)
	return nil
}

func (m *MemoryStore) DeleteBackupCodes(ctx context.Context, accountID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.codes, accountID)
	return nil
}
