package twofactor

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSecrets(t *testing.T) {
	t.Parallel()

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		_, err := store.GetSecret(context.Background(), uuid.New())
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})

	t.Run("save and get returns a copy", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		accountID := uuid.New()

		original := &Secret{AccountID: accountID, EncryptedSeed: "ciphertext"}
		require.NoError(t, store.SaveSecret(context.Background(), original))

		got, err := store.GetSecret(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, "ciphertext", got.EncryptedSeed)

		// Mutating the returned value must not leak into the store.
		got.Enabled = true
		again, err := store.GetSecret(context.Background(), accountID)
		require.NoError(t, err)
		assert.False(t, again.Enabled)
	})

	t.Run("save rejects nil account id", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		err := store.SaveSecret(context.Background(), &Secret{})
		assert.ErrorIs(t, err, ErrInvalidAccountID)
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		assert.NoError(t, store.DeleteSecret(context.Background(), uuid.New()))
	})
}

func TestMemoryStoreBackupCodes(t *testing.T) {
	t.Parallel()

	t.Run("empty set for unknown account", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		hashes, err := store.GetBackupCodes(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Empty(t, hashes)
	})

	t.Run("save replaces wholesale", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		accountID := uuid.New()

		require.NoError(t, store.SaveBackupCodes(context.Background(), accountID, []string{"h1", "h2"}))
		require.NoError(t, store.SaveBackupCodes(context.Background(), accountID, []string{"h3"}))

		hashes, err := store.GetBackupCodes(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, []string{"h3"}, hashes)
	})

	t.Run("replace succeeds only against the expected set", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		accountID := uuid.New()
		require.NoError(t, store.SaveBackupCodes(context.Background(), accountID, []string{"h1", "h2"}))

		err := store.ReplaceBackupCodes(context.Background(), accountID, []string{"stale"}, []string{"h2"})
		assert.ErrorIs(t, err, ErrConflict)

		require.NoError(t, store.ReplaceBackupCodes(context.Background(), accountID, []string{"h1", "h2"}, []string{"h2"}))

		hashes, err := store.GetBackupCodes(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, []string{"h2"}, hashes)
	})

	t.Run("concurrent replace has exactly one winner", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		accountID := uuid.New()
		expected := []string{"h1", "h2", "h3"}
		require.NoError(t, store.SaveBackupCodes(context.Background(), accountID, expected))

		const workers = 16
		var wg sync.WaitGroup
		results := make([]error, workers)
		for i := 0; i < workers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = store.ReplaceBackupCodes(context.Background(), accountID, expected, []string{"h2", "h3"})
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrConflict)
			}
		}
		assert.Equal(t, 1, wins)
	})
}
