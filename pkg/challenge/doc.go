// Package challenge manages the ephemeral second-factor challenges that sit
// between a successful password login and a full session.
//
// A challenge is created once per first-factor success, identified by an
// opaque 256-bit random token, and dies in one of three ways: its TTL
// elapses, its verification-attempt ceiling is exceeded (the registry burns
// it), or it is consumed by a successful verification. Lookup treats all
// three terminal states identically, returning ErrChallengeNotFound without
// revealing which applied.
//
// Consumption is single-use by construction: Store implementations make the
// not-consumed to consumed transition atomic, so of any number of requests
// racing on the same token exactly one observes success. The in-memory
// store serializes through a mutex; the Redis store uses optimistic WATCH
// transactions retried on conflict.
//
// Expiry is enforced lazily at lookup time. The memory store can
// additionally run a janitor to reclaim storage; Redis relies on key TTLs.
//
// # Usage
//
//	store := challenge.NewMemoryStore(time.Minute)
//	defer store.Close()
//
//	registry, _ := challenge.NewRegistry(store, challenge.DefaultConfig())
//
//	ch, _ := registry.Create(ctx, accountID)
//	// hand ch.Token to the client, then during verification:
//
//	ch, err := registry.Lookup(ctx, token)
//	if errors.Is(err, challenge.ErrChallengeNotFound) {
//	    // expired, consumed, or never existed: restart first-factor login
//	}
package challenge
