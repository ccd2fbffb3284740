// Package errors provides the error taxonomy shared by rediskit packages.
//
// Every failure surfaced by the redis facade is an *AppError carrying one of
// three primary codes: CONNECTION_FAILED for connect and handshake failures,
// REMOTE_ERROR for command failures reported by the network or the server,
// and SERIALIZATION_ERROR for JSON encode/decode failures. The original cause
// stays reachable through errors.Is / errors.As.
package errors
