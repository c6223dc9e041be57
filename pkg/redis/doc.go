// Package redis opens go-redis clients for the Redis storage backend.
//
// Open validates the URL (redis:// or rediss://), applies pool and timeout
// settings from Config and retries PING until the server answers or the
// attempts run out. Healthcheck is a readiness check and Shutdown a
// shutdown hook:
//
//	client, err := redis.Open(ctx, cfg.Redis, log)
//	if err != nil {
//		return err
//	}
//	app := mailcast.New(mailcast.WithHealthChecks(
//		mailcast.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	))
//	err = app.Run(cfg.Addr, mailcast.ShutdownHook(redis.Shutdown(client)))
package redis
