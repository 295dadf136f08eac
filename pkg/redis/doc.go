// Package redis provides connection helpers for the Redis instance backing
// the distributed challenge store: a retrying Connect built on go-redis and
// a health-check probe.
//
// Config fields are populated from environment variables via
// github.com/caarlos0/env:
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer client.Close()
//
//	store, err := challenge.NewRedisStore(client)
package redis
