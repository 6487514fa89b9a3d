// Package server exposes the kernels over HTTP.
//
// Routes:
//
//	GET /v1/{op}?a=..&b=..   evaluate one kernel, JSON response
//	GET /metrics             Prometheus exposition
//	GET /healthz             liveness plus host CPU and memory usage
//
// Arguments may also be passed under their own names (n, a, b, limit, size).
// Requests for prime_count and matrix_multiply_sum are checked against the
// configured kernels.Limits before any allocation happens.
package server
