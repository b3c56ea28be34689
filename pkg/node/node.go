// Package node implements the runtime actors spawned for every
// declared node: three interchangeable drone implementations, the chat
// and browser clients, and the text and media servers.
//
// Every actor is constructed with its inbound channels and the shared
// per-kind event send end, then started as one goroutine running Run.
// Actors own their receive ends for the process lifetime; the core
// never joins or cancels them. An actor must tolerate running before
// neighbor wiring completes: a packet for an unknown neighbor is
// dropped and reported, never retried.
package node

// Runner is the minimal contract between the initializer and a spawned
// actor: an unbounded run loop driven by the actor's inbound channels.
type Runner interface {
	Run()
}
