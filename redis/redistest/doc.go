// Package redistest runs an in-memory Redis (miniredis) behind a connected
// *redis.Client for tests. Component implements both component.Component
// and testutil.TestComponent.
//
//	srv := redistest.NewComponent()
//	testutil.Start(t, srv)
//
//	client := srv.Client()
//	client.Set(ctx, "key", "value")
//
//	srv.Miniredis().FastForward(time.Minute) // expire keys
//	testutil.Isolate(t, srv)                 // flush between cases
package redistest
