package twofactor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/challenge"
	"github.com/dmitrymomot/mfakit/pkg/totp"
	"github.com/dmitrymomot/mfakit/pkg/vault"
)

var testMeta = SessionMeta{IP: "203.0.113.7", UserAgent: "test-agent"}

// newTestEnvWithChallengeCfg is newTestEnv with a custom challenge
// configuration, for tests exercising TTL and attempt-ceiling behavior.
func newTestEnvWithChallengeCfg(t *testing.T, cfg challenge.Config) *testEnv {
	t.Helper()

	seedVault, err := vault.New(bytes.Repeat([]byte{0x42}, vault.KeySize))
	require.NoError(t, err)

	chStore := challenge.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = chStore.Close() })
	registry, err := challenge.NewRegistry(chStore, cfg)
	require.NoError(t, err)

	env := &testEnv{
		store:     NewMemoryStore(),
		registry:  registry,
		passwords: &MockPasswordVerifier{},
		sessions:  &MockSessionIssuer{},
		now:       time.Unix(1699999980, 0),
	}

	env.svc, err = NewService(DefaultConfig(), env.store, registry, seedVault, env.passwords, env.sessions,
		WithClock(func() time.Time { return env.now }))
	require.NoError(t, err)

	return env
}

func TestVerifyChallengeTOTP(t *testing.T) {
	t.Parallel()

	t.Run("success consumes challenge and issues session", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)

		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		code, err := totp.GenerateCode(seed, env.now)
		require.NoError(t, err)

		result, err := env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		require.NoError(t, err)
		assert.Equal(t, accountID, result.AccountID)
		assert.Equal(t, "session-token", result.SessionToken)
		assert.Equal(t, MethodTOTP, result.Method)
		assert.Equal(t, DefaultConfig().BackupCodeCount, result.BackupCodesRemaining)

		// The challenge is spent; replaying it fails even with a valid code.
		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		assert.ErrorIs(t, err, ErrChallengeExpired)
	})

	t.Run("code from previous step accepted", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		code, err := totp.GenerateCode(seed, env.now.Add(-30*time.Second))
		require.NoError(t, err)

		result, err := env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		require.NoError(t, err)
		assert.Equal(t, MethodTOTP, result.Method)
	})

	t.Run("code outside drift window rejected", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)

		code, err := totp.GenerateCode(seed, env.now.Add(-2*30*time.Second))
		require.NoError(t, err)

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		assert.ErrorIs(t, err, ErrIncorrectCode)
	})

	t.Run("wrong code leaves challenge retryable", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, "000000", testMeta)
		assert.ErrorIs(t, err, ErrIncorrectCode)

		code, err := totp.GenerateCode(seed, env.now)
		require.NoError(t, err)
		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		assert.NoError(t, err)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		_, err := env.svc.VerifyChallenge(context.Background(), "no-such-token", "123456", testMeta)
		assert.ErrorIs(t, err, ErrChallengeExpired)
	})

	t.Run("expired challenge", func(t *testing.T) {
		t.Parallel()
		env := newTestEnvWithChallengeCfg(t, challenge.Config{
			TTL:         time.Millisecond,
			MaxAttempts: 5,
		})
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		code, err := totp.GenerateCode(seed, env.now)
		require.NoError(t, err)
		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		assert.ErrorIs(t, err, ErrChallengeExpired)
	})

	t.Run("two-factor not enabled burns the challenge", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()

		// Pending setup only, never confirmed.
		_, err := env.svc.StartSetup(context.Background(), accountID, "alice@example.com")
		require.NoError(t, err)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, "123456", testMeta)
		assert.ErrorIs(t, err, ErrNotConfigured)

		_, err = env.registry.Lookup(context.Background(), ch.Token)
		assert.ErrorIs(t, err, challenge.ErrChallengeNotFound)
	})

	t.Run("attempt ceiling burns the challenge", func(t *testing.T) {
		t.Parallel()
		env := newTestEnvWithChallengeCfg(t, challenge.Config{
			TTL:         time.Minute,
			MaxAttempts: 2,
		})
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)

		for n := 0; n < 2; n++ {
			_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, "000000", testMeta)
			assert.ErrorIs(t, err, ErrIncorrectCode)
		}

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, "000000", testMeta)
		assert.ErrorIs(t, err, ErrTooManyAttempts)

		// Burned for good: even the right code is now refused.
		code, err := totp.GenerateCode(seed, env.now)
		require.NoError(t, err)
		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		assert.ErrorIs(t, err, ErrChallengeExpired)
	})

	t.Run("session issuer failure leaves challenge valid", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		seed, _ := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)

		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("", errors.New("session backend down")).Once()
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		code, err := totp.GenerateCode(seed, env.now)
		require.NoError(t, err)

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrChallengeExpired)

		// Retry succeeds without redoing first-factor login.
		result, err := env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		require.NoError(t, err)
		assert.Equal(t, "session-token", result.SessionToken)
	})
}

func TestVerifyChallengeBackupCode(t *testing.T) {
	t.Parallel()

	t.Run("valid code spends exactly one entry", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		_, codes := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		result, err := env.svc.VerifyChallenge(context.Background(), ch.Token, codes[0], testMeta)
		require.NoError(t, err)
		assert.Equal(t, MethodBackupCode, result.Method)
		assert.Equal(t, len(codes)-1, result.BackupCodesRemaining)
	})

	t.Run("backup code is case-insensitive", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		_, codes := env.enroll(t, accountID)

		ch, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		_, err = env.svc.VerifyChallenge(context.Background(), ch.Token, "  "+strings.ToLower(codes[0])+"  ", testMeta)
		assert.NoError(t, err)
	})

	t.Run("spent code never works again", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		_, codes := env.enroll(t, accountID)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		ch1, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		_, err = env.svc.VerifyChallenge(context.Background(), ch1.Token, codes[0], testMeta)
		require.NoError(t, err)

		ch2, err := env.registry.Create(context.Background(), accountID)
		require.NoError(t, err)
		_, err = env.svc.VerifyChallenge(context.Background(), ch2.Token, codes[0], testMeta)
		assert.ErrorIs(t, err, ErrIncorrectCode)
	})

	t.Run("concurrent spend of the same code has exactly one winner", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		accountID := uuid.New()
		_, codes := env.enroll(t, accountID)
		env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

		const workers = 8
		tokens := make([]string, workers)
		for i := range tokens {
			ch, err := env.registry.Create(context.Background(), accountID)
			require.NoError(t, err)
			tokens[i] = ch.Token
		}

		var wg sync.WaitGroup
		results := make([]error, workers)
		for i := 0; i < workers; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = env.svc.VerifyChallenge(context.Background(), tokens[i], codes[0], testMeta)
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, ErrIncorrectCode)
			}
		}
		assert.Equal(t, 1, wins, "a backup code must be spendable exactly once")
	})
}

func TestVerifyChallengeConsumeRace(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	accountID := uuid.New()
	seed, _ := env.enroll(t, accountID)
	env.sessions.On("Create", mock.Anything, accountID, testMeta).Return("session-token", nil)

	ch, err := env.registry.Create(context.Background(), accountID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(seed, env.now)
	require.NoError(t, err)

	const workers = 4
	var wg sync.WaitGroup
	results := make([]error, workers)
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = env.svc.VerifyChallenge(context.Background(), ch.Token, code, testMeta)
		}()
	}
	wg.Wait()

	var wins int
	for _, err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrChallengeExpired)
		}
	}
	assert.Equal(t, 1, wins, "a challenge must be consumable exactly once")
}
