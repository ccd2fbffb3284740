package redis

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/rediskit/logger"
)

// miniConnector returns a Connector pointed at mini with a silent logger.
func miniConnector(t *testing.T, mini *miniredis.Miniredis) Connector {
	t.Helper()
	host, port, err := net.SplitHostPort(mini.Addr())
	if err != nil {
		t.Fatalf("split %q: %v", mini.Addr(), err)
	}
	p, _ := strconv.Atoi(port)
	return NewConnector().Host(host).Port(p).ConnectRetries(1).Logger(logger.Nop())
}

// newTestClient creates a Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client, err := miniConnector(t, mini).Connect(context.Background())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

// deadAddr returns an address nothing listens on.
func deadAddr(t *testing.T) (string, int) {
	t.Helper()
	mini := miniredis.NewMiniRedis()
	if err := mini.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	host, port, _ := net.SplitHostPort(mini.Addr())
	mini.Close()
	p, _ := strconv.Atoi(port)
	return host, p
}
