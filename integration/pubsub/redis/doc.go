// Package redis relays broadcast values between instances through a Redis
// pub/sub channel.
//
// Each instance publishes submitted values with Relay.Publish and runs
// Relay.Run, which feeds every message seen on the channel into the local
// broadcaster:
//
//	relay, err := redis.New(client, "livestream:values", broadcaster, redis.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g.Go(relay.Start(ctx))
package redis
