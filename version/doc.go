// Package version reports the build version of binaries using rediskit.
// It feeds the default service.version of observability.Config.
//
//	go build -ldflags "-X github.com/kbukum/rediskit/version.Version=v1.0.0"
package version
