package initializer

import (
	"errors"
	"fmt"

	"github.com/RustRoveri/network-initializer/pkg/logging"
	"github.com/RustRoveri/network-initializer/pkg/metrics"
	"github.com/RustRoveri/network-initializer/pkg/topology"
)

// The reference semantics are unbounded channels, so sends never block.
// Go channels are bounded; the defaults below make the initializer's
// own sends provably non-blocking: a node receives at most one
// AddSender per possible neighbor, so a command buffer of MaxNodes can
// never fill during wiring. Packet, event, and UI buffers absorb
// runtime bursts.
const (
	defaultCommandBuffer = topology.MaxNodes
	defaultPacketBuffer  = 1024
	defaultEventBuffer   = 4096
	defaultUIBuffer      = 64
)

type options struct {
	logger        logging.Logger
	metrics       *metrics.Registry
	commandBuffer int
	packetBuffer  int
	eventBuffer   int
	uiBuffer      int
}

// Option customizes the initializer's ambient stack and buffer sizes.
type Option func(*options)

// WithLogger routes the initializer's and the spawned nodes' logs to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records spawn and wiring counters on r and hands r to the
// spawned drones for traffic counters.
func WithMetrics(r *metrics.Registry) Option {
	return func(o *options) { o.metrics = r }
}

// WithBuffers overrides the channel capacities. Shrinking the command
// buffer below MaxNodes voids the guarantee that wiring never blocks;
// wiring sends then degrade to best-effort.
func WithBuffers(command, packet, event, ui int) Option {
	return func(o *options) {
		o.commandBuffer = command
		o.packetBuffer = packet
		o.eventBuffer = event
		o.uiBuffer = ui
	}
}

func defaultOptions() options {
	return options{
		logger:        logging.NewNopLogger(),
		commandBuffer: defaultCommandBuffer,
		packetBuffer:  defaultPacketBuffer,
		eventBuffer:   defaultEventBuffer,
		uiBuffer:      defaultUIBuffer,
	}
}

// validate checks every buffer size, collecting all problems in one
// error.
func (o *options) validate() error {
	var errs []error
	check := func(field string, v int) {
		if v < 1 {
			errs = append(errs, fmt.Errorf("initializer: %s buffer must be positive, got %d", field, v))
		}
	}
	check("command", o.commandBuffer)
	check("packet", o.packetBuffer)
	check("event", o.eventBuffer)
	check("ui", o.uiBuffer)
	return errors.Join(errs...)
}
