package htu21d

import (
	"context"
	"fmt"

	"golang.org/x/exp/io/i2c"
)

// DefaultBusDevice is the default i2c-dev bus device.
const DefaultBusDevice = "/dev/i2c-1"

// Devfs is a Transport over a Linux i2c-dev bus device. The kernel
// driver owns clocking, acknowledgement handling and the NACK before
// stop on reads; context expiry is checked between transactions and
// surfaced as ErrTimeout.
type Devfs struct {
	dev *i2c.Device
}

// NewDevfs opens the sensor on the given bus device, e.g. /dev/i2c-1.
func NewDevfs(busDevice string) (*Devfs, error) {
	if busDevice == "" {
		return nil, fmt.Errorf("%w: empty bus device path", ErrConfig)
	}

	dev, err := i2c.Open(&i2c.Devfs{Dev: busDevice}, Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInstall, err)
	}

	return &Devfs{dev: dev}, nil
}

// Probe checks that the sensor acknowledges its address. i2c-dev cannot
// issue an empty-payload write, so a one byte read stands in: it fails
// unless the sensor ACKs the address.
func (t *Devfs) Probe(ctx context.Context) error {
	var buf [1]byte
	return t.Read(ctx, buf[:])
}

// Write sends the buffer to the sensor in one transaction.
func (t *Devfs) Write(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	if err := t.dev.Write(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrFailure, err)
	}
	return nil
}

// Read fills the buffer from the sensor in one transaction.
func (t *Devfs) Read(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	if err := t.dev.Read(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrFailure, err)
	}
	return nil
}

// Close releases the bus device.
func (t *Devfs) Close() error {
	return t.dev.Close()
}
