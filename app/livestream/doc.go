// Package livestream is the live value stream service.
//
// Clients POST values to /add-value. Each value is persisted through a
// ValueStore and then pushed to every client connected to /events
// (Server-Sent Events) or /ws (WebSocket). With REDIS_URL set, values travel
// through a Redis channel so that every instance behind a load balancer
// delivers them.
package livestream
