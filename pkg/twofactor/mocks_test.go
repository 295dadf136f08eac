package twofactor

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of Storage.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetSecret(ctx context.Context, accountID uuid.UUID) (*Secret, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Secret), args.Error(1)
}

func (m *MockStorage) SaveSecret(ctx context.Context, secret *Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockStorage) DeleteSecret(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockStorage) GetBackupCodes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStorage) SaveBackupCodes(ctx context.Context, accountID uuid.UUID, hashes []string) error {
	args := m.Called(ctx, accountID, hashes)
	return args.Error(0)
}

func (m *MockStorage) ReplaceBackupCodes(ctx context.Context, accountID uuid.UUID, expected, replacement []string) error {
	args := m.Called(ctx, accountID, expected, replacement)
	return args.Error(0)
}

func (m *MockStorage) DeleteBackupCodes(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockPasswordVerifier is a mock implementation of PasswordVerifier.
type MockPasswordVerifier struct {
	mock.Mock
}

func (m *MockPasswordVerifier) Verify(ctx context.Context, accountID uuid.UUID, password string) (bool, error) {
	args := m.Called(ctx, accountID, password)
	return args.Bool(0), args.Error(1)
}

// MockSessionIssuer is a mock implementation of SessionIssuer.
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) Create(ctx context.Context, accountID uuid.UUID, meta SessionMeta) (string, error) {
	args := m.Called(ctx, accountID, meta)
	return args.String(0), args.Error(1)
}
