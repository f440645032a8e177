// Package redis connects to Redis with go-redis and verifies the server
// answers before handing the client out.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck adapts a client into a readiness probe for core/health.
package redis
