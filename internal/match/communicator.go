// Package match implements the match loop (component K): it owns one
// Engine + Resources pair, reads inbound frames from a Communicator, and
// drains the cascade after each one, emitting outbound frames and
// interleaving prompts per §4.10/§4.11.
package match

import "cascadeengine/internal/wire"

// Communicator is the narrow interface the match loop needs from the
// transport layer. The concrete implementation (a websocket connection, a
// test harness, ...) lives outside this package's concern (§1 scope).
type Communicator interface {
	// Read blocks for the next inbound text frame.
	Read() (string, error)
	// Send writes one outbound instruction.
	Send(wire.Instruction) error
}

// SinkFor adapts a Communicator to a wire.Sink so the Engine can emit
// directly to the wire without the match loop acting as a relay for every
// frame produced mid-cascade.
func SinkFor(c Communicator) wire.Sink {
	return wire.SinkFunc(func(i wire.Instruction) {
		_ = c.Send(i)
	})
}
