// Package redis wraps a go-redis client with a connection builder and a
// typed command facade.
//
// # Connecting
//
//	client, err := redis.NewConnector().
//	    Host("cache.internal").
//	    Password(os.Getenv("REDIS_PASSWORD")).
//	    DB(2).
//	    Connect(ctx)
//	if err != nil {
//	    return err // errors.IsConnection(err) == true
//	}
//	defer client.Close()
//
// Connect validates the settings, creates the pooled go-redis client and
// retries PING a few times before giving up. Rejected credentials and bad
// database indexes are not retried.
//
// # Commands
//
// Each facade method issues exactly one command. Absent values are reported
// with a boolean rather than an error:
//
//	name, ok, err := client.HGet(ctx, "user:1", "name")
//
// Command failures are REMOTE_ERROR app errors carrying the command and key;
// JSON helpers report SERIALIZATION_ERROR when a value cannot be encoded or
// a stored payload does not decode:
//
//	if err := client.SetJSONEx(ctx, "session:"+id, sess, time.Hour); err != nil { ... }
//	sess, err := redis.GetAs[Session](ctx, client, "session:"+id)
//
// # Extras
//
// TypedStore and CachedStore keep typed values under a key prefix, NewLock
// returns a redsync-backed distributed lock, NewInstrumentation returns a
// go-redis hook emitting OpenTelemetry spans and metrics, and Component
// plugs the client into a component.Registry.
package redis
