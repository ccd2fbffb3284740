package redis

import (
	"context"
	stderrors "errors"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/rediskit/errors"
)

// transientReplies are server error prefixes worth retrying during connect.
var transientReplies = []string{"LOADING", "BUSY", "TRYAGAIN", "MASTERDOWN"}

// connectionError reports a failure to establish or use a connection.
func connectionError(cfg Config, cause error) *errors.AppError {
	return errors.ConnectionFailed(cfg.Name).
		WithCause(cause).
		WithDetails(map[string]any{"addr": cfg.Addr(), "db": cfg.DB})
}

// remoteError reports a failed command. The key detail is omitted when empty.
func remoteError(command, key string, cause error) *errors.AppError {
	appErr := errors.Remote(command, cause)
	if key != "" {
		appErr.WithDetail("key", key)
	}
	return appErr
}

func encodeError(key string, cause error) *errors.AppError {
	return errors.Serialization("encode", cause).WithDetail("key", key)
}

func decodeError(key string, cause error) *errors.AppError {
	return errors.Serialization("decode", cause).WithDetail("key", key)
}

// isServerReply reports whether err is an error reply sent by the server,
// as opposed to a network or client-side failure.
func isServerReply(err error) bool {
	var reply goredis.Error
	return stderrors.As(err, &reply) && !stderrors.Is(err, goredis.Nil)
}

// retryableConnectError decides whether a failed handshake PING is retried.
// Server replies (NOAUTH, WRONGPASS, bad DB index) are final unless the server
// reports a transient state; cancellation is always final.
func retryableConnectError(err error) bool {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if !isServerReply(err) {
		return true
	}
	msg := err.Error()
	for _, prefix := range transientReplies {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
