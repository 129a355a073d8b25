package htu21d

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/warthog618/gpio"
	"golang.org/x/sys/unix"
)

// BitBangConfig describes the pins and clock of a bit banged bus master.
type BitBangConfig struct {
	SDAPin int
	SCLPin int

	// Enable the internal pull ups on the data and clock lines. Leave
	// false when the board carries external pull ups.
	SDAPullUp bool
	SCLPullUp bool

	// Clock is the bus clock period. Defaults to 10µs (100 kHz).
	Clock time.Duration
}

// BitBang is a Transport that drives the bus directly on two GPIO pins
// as an open drain master: lines are pulled low or released to float
// high, never driven high. Clock stretching by the peripheral is not
// supported; the HTU21D does not stretch in no hold mode.
type BitBang struct {
	sda  *gpio.Pin
	scl  *gpio.Pin
	half time.Duration
}

// NewBitBang claims the GPIO driver and configures the pins. The bus is
// left idle with both lines released.
func NewBitBang(config BitBangConfig) (*BitBang, error) {
	if config.SDAPin == config.SCLPin {
		return nil, fmt.Errorf("%w: sda and scl both on pin %d", ErrConfig, config.SDAPin)
	}
	if config.Clock < 0 {
		return nil, fmt.Errorf("%w: negative clock period", ErrConfig)
	}
	clock := config.Clock
	if clock == 0 {
		clock = 10 * time.Microsecond // 100 kHz
	}

	err := gpio.Open()
	if err != nil && !errors.Is(err, gpio.ErrAlreadyOpen) {
		return nil, fmt.Errorf("%w: %v", ErrInstall, err)
	}

	t := &BitBang{
		sda:  gpio.NewPin(config.SDAPin),
		scl:  gpio.NewPin(config.SCLPin),
		half: clock / 2,
	}

	if config.SDAPullUp {
		t.sda.PullUp()
	}
	if config.SCLPullUp {
		t.scl.PullUp()
	}

	release(t.sda)
	release(t.scl)

	return t, nil
}

// Probe addresses the sensor with write intent and no payload.
func (t *BitBang) Probe(ctx context.Context) error {
	return t.Write(ctx, nil)
}

// Write sends the buffer to the sensor in one transaction.
func (t *BitBang) Write(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	t.start()
	defer t.stop()

	if !t.writeByte(Addr<<1 | 0) {
		return fmt.Errorf("%w: no ack for address %#02x", ErrFailure, Addr)
	}
	for _, b := range buf {
		if !t.writeByte(b) {
			return fmt.Errorf("%w: no ack for byte %#02x", ErrFailure, b)
		}
	}
	return nil
}

// Read fills the buffer from the sensor in one transaction, NACKing the
// final byte.
func (t *BitBang) Read(ctx context.Context, buf []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	t.start()
	defer t.stop()

	if !t.writeByte(Addr<<1 | 1) {
		return fmt.Errorf("%w: no ack for address %#02x", ErrFailure, Addr)
	}
	for i := range buf {
		buf[i] = t.readByte(i == len(buf)-1)
	}
	return nil
}

// Close releases both lines and the GPIO driver.
func (t *BitBang) Close() error {
	release(t.sda)
	release(t.scl)

	err := gpio.Close()
	if err != nil && !errors.Is(err, unix.EINVAL) { // gpio may be shared and already closed elsewhere
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

// release lets the line float high through the pull up.
func release(pin *gpio.Pin) {
	pin.Input()
}

// drive pulls the line low.
func drive(pin *gpio.Pin) {
	pin.Output()
	pin.Low()
}

func (t *BitBang) wait() {
	// time.Sleep overshoots at this scale, which only slows the clock
	// below its nominal rate; the bus has no minimum speed.
	time.Sleep(t.half)
}

// start issues a START condition: SDA falls while SCL is high.
func (t *BitBang) start() {
	release(t.sda)
	release(t.scl)
	t.wait()
	drive(t.sda)
	t.wait()
	drive(t.scl)
	t.wait()
}

// stop issues a STOP condition: SDA rises while SCL is high.
func (t *BitBang) stop() {
	drive(t.sda)
	t.wait()
	release(t.scl)
	t.wait()
	release(t.sda)
	t.wait()
}

// writeByte clocks out one byte, most significant bit first, and
// reports whether the peripheral acknowledged it on the ninth clock.
func (t *BitBang) writeByte(b byte) bool {
	for i := 7; i >= 0; i-- {
		if b&(1<<uint(i)) != 0 {
			release(t.sda)
		} else {
			drive(t.sda)
		}
		t.wait()
		release(t.scl)
		t.wait()
		drive(t.scl)
	}

	// Release the data line; the peripheral pulls it low to acknowledge.
	release(t.sda)
	t.wait()
	release(t.scl)
	t.wait()
	ack := t.sda.Read() == gpio.Low
	drive(t.scl)
	t.wait()

	return ack
}

// readByte clocks in one byte and acknowledges it, or NACKs it when
// last is set to signal the end of the transfer.
func (t *BitBang) readByte(last bool) byte {
	release(t.sda)

	var b byte
	for i := 7; i >= 0; i-- {
		t.wait()
		release(t.scl)
		t.wait()
		if t.sda.Read() == gpio.High {
			b |= 1 << uint(i)
		}
		drive(t.scl)
	}

	if last {
		release(t.sda) // NACK
	} else {
		drive(t.sda) // ACK
	}
	t.wait()
	release(t.scl)
	t.wait()
	drive(t.scl)
	release(t.sda)
	t.wait()

	return b
}
