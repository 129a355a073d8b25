package htu21d

import "errors"

// Error categories surfaced by the driver and its transports. Transport
// implementations wrap their platform errors into these so callers can
// match them with errors.Is.
var (
	// ErrConfig means the bus controller could not be configured.
	ErrConfig = errors.New("htu21d: bus configuration failed")

	// ErrInstall means the bus driver could not be activated.
	ErrInstall = errors.New("htu21d: bus driver install failed")

	// ErrNotFound means the sensor did not acknowledge its address.
	ErrNotFound = errors.New("htu21d: sensor not found on bus")

	// ErrInvalidArg means a parameter was rejected.
	ErrInvalidArg = errors.New("htu21d: invalid argument")

	// ErrFailure means the sensor did not acknowledge a transfer.
	ErrFailure = errors.New("htu21d: transfer not acknowledged")

	// ErrInvalidState means the bus driver is not in a usable state.
	ErrInvalidState = errors.New("htu21d: bus driver in invalid state")

	// ErrTimeout means a bus transaction did not complete in time.
	ErrTimeout = errors.New("htu21d: bus transaction timed out")

	// ErrChecksum means a measurement failed CRC validation and was
	// discarded.
	ErrChecksum = errors.New("htu21d: checksum mismatch")
)
