package htu21d

import "context"

// Transport moves bytes between the host and the sensor at its fixed
// bus address. A call is a single bus transaction. Implementations are
// not safe for concurrent use; Device serialises access to them.
type Transport interface {
	// Probe verifies the sensor acknowledges its address, without
	// sending a command.
	Probe(ctx context.Context) error

	// Write addresses the sensor with write intent and sends the
	// buffer.
	Write(ctx context.Context, buf []byte) error

	// Read addresses the sensor with read intent and fills the buffer,
	// acknowledging every byte except the last, which is NACKed to end
	// the transfer.
	Read(ctx context.Context, buf []byte) error

	// Close releases the underlying bus resources.
	Close() error
}
