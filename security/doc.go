// Package security builds client TLS configuration from file references,
// as used by rediss connections.
//
//	tlsCfg, err := security.TLSConfig{
//	    CAFile:     "/etc/redis/ca.pem",
//	    ServerName: "cache.internal",
//	}.Build()
package security
