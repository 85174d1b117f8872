// Package server wires and runs the application's transport servers.
//
// It provides orchestration for the HTTP API and the gRPC health server
// lifecycles: startup, shutdown on context cancellation and graceful draining
// of in-flight requests.
package server
