// Package redis opens the go-redis client backing the shared fragment cache.
//
// [Open] and [OpenConfig] validate the URL (redis:// or rediss://), apply pool
// and timeout settings and ping the server, retrying with a linearly growing
// wait until the attempts are exhausted or the context is done:
//
//	client, err := redis.OpenConfig(ctx, cfg.Redis, logger)
//	if err != nil {
//		return err
//	}
//	fragments := cache.NewRedis(client, cache.WithPrefix("lingua"))
//
// [Healthcheck] plugs into the readiness endpoint and [Shutdown] into the
// application's shutdown hooks.
package redis
