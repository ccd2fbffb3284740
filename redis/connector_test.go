package redis

import (
	"bytes"
	"context"
	stderrors "errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/rediskit/errors"
	"github.com/kbukum/rediskit/logger"
	"github.com/kbukum/rediskit/security/tlstest"
)

func TestNewConnector_Defaults(t *testing.T) {
	cfg := NewConnector().Config()
	if cfg.Host != "localhost" || cfg.Port != 6379 || cfg.DB != 0 || cfg.Password != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	url, err := NewConnector().URL()
	if err != nil {
		t.Fatalf("URL() failed: %v", err)
	}
	if url != "redis://localhost:6379/0" {
		t.Errorf("URL() = %q", url)
	}
}

func TestConnector_SettersReturnCopies(t *testing.T) {
	base := NewConnector().Host("cache.internal")
	sessions := base.DB(1).Password("s3cret")
	jobs := base.DB(2)

	if base.Config().DB != 0 || base.Config().Password != "" {
		t.Errorf("base mutated: %+v", base.Config())
	}
	if sessions.Config().DB != 1 || sessions.Config().Host != "cache.internal" {
		t.Errorf("unexpected sessions config: %+v", sessions.Config())
	}
	if jobs.Config().DB != 2 || jobs.Config().Password != "" {
		t.Errorf("unexpected jobs config: %+v", jobs.Config())
	}

	hooked := base.Hooks(goredis.Hook(nil))
	if len(base.hooks) != 0 || len(hooked.hooks) != 1 {
		t.Errorf("Hooks should not share backing arrays: base=%d hooked=%d", len(base.hooks), len(hooked.hooks))
	}
}

func TestConnector_URL(t *testing.T) {
	tests := []struct {
		name string
		conn Connector
		want string
	}{
		{"plain", NewConnector().Host("10.0.0.5").Port(6380).DB(3), "redis://10.0.0.5:6380/3"},
		{"password", NewConnector().Password("pw"), "redis://:pw@localhost:6379/0"},
		{"username and password", NewConnector().Username("app").Password("pw"), "redis://app:pw@localhost:6379/0"},
		{"tls", NewConnector().Host("cache").TLS(true, false), "rediss://cache:6379/0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.conn.URL()
			if err != nil {
				t.Fatalf("URL() failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("URL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestConnector_URLInvalid(t *testing.T) {
	_, err := NewConnector().Host("").URL()
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error for empty host, got %v", err)
	}
	if !strings.Contains(err.Error(), "host") {
		t.Errorf("expected host in message, got %q", err.Error())
	}
}

func TestConnector_Options(t *testing.T) {
	opts, err := NewConnector().
		Host("cache").
		Port(6390).
		Username("app").
		Password("pw").
		DB(5).
		PoolSize(25).
		MaxRetries(-1).
		DialTimeout(2 * time.Second).
		ReadTimeout(time.Second).
		WriteTimeout(1500 * time.Millisecond).
		TLS(true, true).
		Options()
	if err != nil {
		t.Fatalf("Options() failed: %v", err)
	}

	if opts.Addr != "cache:6390" || opts.Username != "app" || opts.Password != "pw" || opts.DB != 5 {
		t.Errorf("unexpected endpoint options: addr=%s user=%s db=%d", opts.Addr, opts.Username, opts.DB)
	}
	if opts.PoolSize != 25 || opts.MaxRetries != -1 {
		t.Errorf("unexpected pool options: pool=%d retries=%d", opts.PoolSize, opts.MaxRetries)
	}
	if opts.DialTimeout != 2*time.Second || opts.ReadTimeout != time.Second || opts.WriteTimeout != 1500*time.Millisecond {
		t.Errorf("unexpected timeouts: %v %v %v", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
	if opts.TLSConfig == nil || !opts.TLSConfig.InsecureSkipVerify {
		t.Error("expected TLS config with skip verify")
	}
}

func TestConnector_TLSOptions(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	opts, err := NewConnector().
		Host("cache.internal").
		TLS(true, false).
		TLSFiles(certs.CAFile, certs.CertFile, certs.KeyFile).
		Options()
	if err != nil {
		t.Fatalf("Options() failed: %v", err)
	}
	if opts.TLSConfig.ServerName != "cache.internal" {
		t.Errorf("ServerName = %q, want host", opts.TLSConfig.ServerName)
	}
	if opts.TLSConfig.RootCAs == nil || len(opts.TLSConfig.Certificates) != 1 {
		t.Error("expected CA pool and client certificate")
	}

	opts, _ = NewConnector().TLS(true, false).TLSServerName("redis.example.com").Options()
	if opts.TLSConfig.ServerName != "redis.example.com" {
		t.Errorf("ServerName = %q", opts.TLSConfig.ServerName)
	}

	if _, err := NewConnector().TLS(true, false).TLSFiles("/nonexistent/ca.pem", "", "").Options(); !errors.IsConnection(err) {
		t.Errorf("missing CA file: expected connection error, got %v", err)
	}
	if _, err := NewConnector().TLSFiles(certs.CAFile, "", "").URL(); !errors.IsConnection(err) {
		t.Errorf("TLS files without TLS: expected connection error, got %v", err)
	}
}

func TestConnect_TLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	mini, err := miniredis.RunTLS(certs.ServerConfig())
	if err != nil {
		t.Fatalf("failed to start TLS miniredis: %v", err)
	}
	t.Cleanup(mini.Close)
	ctx := context.Background()

	client, err := miniConnector(t, mini).TLS(true, false).TLSFiles(certs.CAFile, "", "").Connect(ctx)
	if err != nil {
		t.Fatalf("Connect over TLS failed: %v", err)
	}
	if err := client.Set(ctx, "k", "v"); err != nil {
		t.Errorf("Set over TLS failed: %v", err)
	}
	_ = client.Close()

	_, err = miniConnector(t, mini).TLS(true, false).MaxRetries(-1).Connect(ctx)
	if !errors.IsConnection(err) {
		t.Errorf("untrusted certificate: expected connection error, got %v", err)
	}
}

func TestConnector_TLSSkipVerifyNeedsTLS(t *testing.T) {
	cfg := NewConnector().TLS(false, true).Config()
	if cfg.TLSSkipVerify {
		t.Error("skip verify should not be set when TLS is disabled")
	}
}

func TestConnect_Success(t *testing.T) {
	mini := miniredis.RunT(t)
	client, err := miniConnector(t, mini).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer client.Close()

	if client.Name() != DefaultName {
		t.Errorf("Name() = %q", client.Name())
	}
	if client.Config().Addr() != mini.Addr() {
		t.Errorf("Config().Addr() = %q, want %q", client.Config().Addr(), mini.Addr())
	}
	if !client.IsAvailable(context.Background()) {
		t.Error("expected client to be available")
	}
}

func TestConnect_SelectsDatabase(t *testing.T) {
	mini := miniredis.RunT(t)
	client, err := miniConnector(t, mini).DB(3).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := mini.DB(3).Exists("k"); !got {
		t.Error("expected key in db 3")
	}
	if mini.Exists("k") {
		t.Error("key should not be in db 0")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	host, port := deadAddr(t)
	start := time.Now()

	_, err := NewConnector().
		Host(host).
		Port(port).
		MaxRetries(-1).
		ConnectRetries(2).
		DialTimeout(200 * time.Millisecond).
		Connect(context.Background())
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Connect took %v, expected to fail within the dial budget", elapsed)
	}
}

// silentAddr returns an address that accepts connections but never replies.
func silentAddr(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	host, port, _ := net.SplitHostPort(ln.Addr().String())
	p, _ := strconv.Atoi(port)
	return host, p
}

func TestConnect_UnresponsiveServerBoundedPerAttempt(t *testing.T) {
	host, port := silentAddr(t)
	start := time.Now()

	// Without a per-attempt deadline go-redis would retry each PING ten
	// times with backoff, taking several seconds per attempt.
	_, err := NewConnector().
		Host(host).
		Port(port).
		MaxRetries(10).
		ConnectRetries(2).
		DialTimeout(50 * time.Millisecond).
		ReadTimeout(50 * time.Millisecond).
		Logger(logger.Nop()).
		Connect(context.Background())
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Connect took %v, want about 2*(dial+read) plus backoff", elapsed)
	}
}

func TestConnect_UsesRegisteredLogger(t *testing.T) {
	mini := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mini.Addr())
	p, _ := strconv.Atoi(port)

	buf := &bytes.Buffer{}
	logger.Register("sessions-cache", logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "rediskit", buf))

	client, err := NewConnectorFromConfig(Config{Name: "sessions-cache", Host: host, Port: p, ConnectRetries: 1}).
		Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	defer client.Close()

	if !strings.Contains(buf.String(), "Redis client connected") {
		t.Errorf("expected connect log on the registered logger, got %q", buf.String())
	}
}

func TestConnector_URLAcceptsUnderscoreHost(t *testing.T) {
	raw, err := NewConnector().Host("redis_cache").URL()
	if err != nil {
		t.Fatalf("URL() failed: %v", err)
	}
	if raw != "redis://redis_cache:6379/0" {
		t.Errorf("URL() = %q", raw)
	}
}

func TestConnector_OptionsNoIdleConns(t *testing.T) {
	cfg := NewConnector().Config()
	cfg.MinIdleConns = -1
	opts, err := NewConnectorFromConfig(cfg).Options()
	if err != nil {
		t.Fatalf("Options() failed: %v", err)
	}
	if opts.MinIdleConns != 0 {
		t.Errorf("MinIdleConns = %d, want 0", opts.MinIdleConns)
	}
}

func TestConnect_AuthRequired(t *testing.T) {
	mini := miniredis.RunT(t)
	mini.RequireAuth("s3cret")

	_, err := miniConnector(t, mini).Connect(context.Background())
	if !errors.IsConnection(err) {
		t.Errorf("expected connection error without password, got %v", err)
	}

	_, err = miniConnector(t, mini).Password("wrong").Connect(context.Background())
	if !errors.IsConnection(err) {
		t.Errorf("expected connection error with wrong password, got %v", err)
	}

	client, err := miniConnector(t, mini).Password("s3cret").Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect with password failed: %v", err)
	}
	_ = client.Close()
}

func TestConnect_InvalidConfig(t *testing.T) {
	_, err := NewConnector().DB(-1).Connect(context.Background())
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Details["service"] != DefaultName {
		t.Errorf("expected service detail, got %v", appErr.Details)
	}
}

func TestConnect_CanceledContext(t *testing.T) {
	mini := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := miniConnector(t, mini).ConnectRetries(3).Connect(ctx)
	if !errors.IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected cause to be context.Canceled, got %v", err)
	}
}

func TestRetryableConnectError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{context.Canceled, false},
		{context.DeadlineExceeded, false},
		{goredis.ErrClosed, true},
		{replyError("NOAUTH Authentication required."), false},
		{replyError("WRONGPASS invalid username-password pair"), false},
		{replyError("ERR DB index is out of range"), false},
		{replyError("LOADING Redis is loading the dataset in memory"), true},
		{replyError("BUSY Redis is busy running a script"), true},
	}
	for _, tc := range tests {
		if got := retryableConnectError(tc.err); got != tc.want {
			t.Errorf("retryableConnectError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

// replyError mimics a server error reply.
type replyError string

func (e replyError) Error() string { return string(e) }
func (replyError) RedisError()     {}
