// Package testutil provides the TestComponent contract for in-memory
// infrastructure used in tests, and helpers that tie a component's lifecycle
// to a *testing.T.
//
//	srv := redistest.NewComponent()
//	testutil.Start(t, srv)
//	testutil.Isolate(t, srv)
package testutil
