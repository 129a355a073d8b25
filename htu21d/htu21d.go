// Package htu21d drives the TE Connectivity HTU21D humidity and
// temperature sensor over I2C.
//
// A Device is a session with a single sensor on a Transport. Measurement
// reads use the no hold protocol: the trigger command is written, the
// worst case conversion time is waited out, and the result is read back
// and checksum verified. There is no polling and no retry; a failed read
// returns an error and the caller decides whether to try again.
package htu21d

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Addr is the fixed 7-bit bus address of the HTU21D.
const Addr = 0x40

// Command bytes, per datasheet.
const (
	cmdTriggerTempHold   = 0xE3
	cmdTriggerHumdHold   = 0xE5
	cmdTriggerTempNoHold = 0xF3
	cmdTriggerHumdNoHold = 0xF5
	cmdWriteUserReg      = 0xE6
	cmdReadUserReg       = 0xE7
	cmdSoftReset         = 0xFE
)

// Resolution is the measurement resolution field of the user register,
// encoded in bits 7 and 0.
type Resolution byte

// The four resolution settings supported by the sensor.
const (
	ResolutionRH12Temp14 Resolution = 0x00
	ResolutionRH8Temp12  Resolution = 0x01
	ResolutionRH10Temp13 Resolution = 0x80
	ResolutionRH11Temp11 Resolution = 0x81
)

// resolutionMask selects bits 7 and 0 of the user register.
const resolutionMask = 0x81

const (
	// conversionTime is the worst case measurement time, at 14 bit
	// temperature resolution. Conversion completion is never polled,
	// only waited out.
	conversionTime = 50 * time.Millisecond

	// resetTime is the manufacturer specified maximum soft reset time.
	resetTime = 15 * time.Millisecond

	// DefaultTimeout bounds a single bus transaction.
	DefaultTimeout = time.Second
)

// statusMask clears the two status flag bits of a raw measurement word.
const statusMask = 0xFFFC

// Device is a session with a single HTU21D sensor. A mutex serialises
// the exported operations over the whole transaction sequence; the
// protocol has no safe suspension points mid-transaction.
type Device struct {
	mu        sync.Mutex
	transport Transport
	timeout   time.Duration
	sleep     func(time.Duration)
}

// New wraps an opened transport. Call Init before reading.
func New(transport Transport) *Device {
	return &Device{
		transport: transport,
		timeout:   DefaultTimeout,
		sleep:     time.Sleep,
	}
}

// Init verifies the sensor answers its address and then soft resets it,
// as the datasheet recommends at start. If the probe fails no reset is
// attempted and ErrNotFound is returned.
func (d *Device) Init(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	if err := d.transport.Probe(probeCtx); err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	return d.softReset(ctx)
}

// SoftReset reboots the sensor. The user register returns to its default
// state with the exception of the heater bit. The sensor needs up to
// 15ms to come back; SoftReset blocks for that long before returning.
func (d *Device) SoftReset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.softReset(ctx)
}

func (d *Device) softReset(ctx context.Context) error {
	if err := d.write(ctx, []byte{cmdSoftReset}); err != nil {
		return err
	}
	d.sleep(resetTime)
	return nil
}

// Temperature triggers a temperature measurement and returns degrees
// Celsius.
func (d *Device) Temperature(ctx context.Context) (float64, error) {
	raw, err := d.RawTemperature(ctx)
	if err != nil {
		return 0, err
	}
	return temperatureFromRaw(raw), nil
}

// Humidity triggers a humidity measurement and returns %RH. See
// CompensatedHumidity for the temperature compensated value.
func (d *Device) Humidity(ctx context.Context) (float64, error) {
	raw, err := d.RawHumidity(ctx)
	if err != nil {
		return 0, err
	}
	return humidityFromRaw(raw), nil
}

// RawTemperature returns the raw measurement word of a no hold
// temperature conversion, status bits cleared.
func (d *Device) RawTemperature(ctx context.Context) (uint16, error) {
	return d.readValue(ctx, cmdTriggerTempNoHold)
}

// RawHumidity returns the raw measurement word of a no hold humidity
// conversion, status bits cleared.
func (d *Device) RawHumidity(ctx context.Context) (uint16, error) {
	return d.readValue(ctx, cmdTriggerHumdNoHold)
}

func (d *Device) readValue(ctx context.Context, cmd byte) (uint16, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.write(ctx, []byte{cmd}); err != nil {
		return 0, err
	}

	// In no hold mode the sensor releases the bus while it converts, so
	// the host waits rather than having the clock stretched.
	d.sleep(conversionTime)

	var buf [3]byte
	if err := d.read(ctx, buf[:]); err != nil {
		return 0, err
	}

	value := uint16(buf[0])<<8 | uint16(buf[1])
	if !validCRC(value, buf[2]) {
		return 0, fmt.Errorf("%w: value %#04x crc %#02x", ErrChecksum, value, buf[2])
	}

	// The low two bits are status flags, not measurement data.
	return value & statusMask, nil
}

// ReadUserRegister returns the sensor's configuration byte.
func (d *Device) ReadUserRegister(ctx context.Context) (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.readUserRegister(ctx)
}

func (d *Device) readUserRegister(ctx context.Context) (byte, error) {
	if err := d.write(ctx, []byte{cmdReadUserReg}); err != nil {
		return 0, err
	}

	var buf [1]byte
	if err := d.read(ctx, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteUserRegister replaces the sensor's configuration byte.
func (d *Device) WriteUserRegister(ctx context.Context, value byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.write(ctx, []byte{cmdWriteUserReg, value})
}

// Resolution returns the resolution field of the user register.
func (d *Device) Resolution(ctx context.Context) (Resolution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	reg, err := d.readUserRegister(ctx)
	if err != nil {
		return 0, err
	}
	return Resolution(reg & resolutionMask), nil
}

// SetResolution replaces the resolution field of the user register.
//
// The read-modify-write keeps only bits 7 and 0 of the current register,
// so the reserved and heater bits are written back cleared. An enabled
// heater is switched off by this call.
func (d *Device) SetResolution(ctx context.Context, resolution Resolution) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	reg, err := d.readUserRegister(ctx)
	if err != nil {
		return err
	}

	value := reg&resolutionMask | byte(resolution)&resolutionMask

	return d.write(ctx, []byte{cmdWriteUserReg, value})
}

func (d *Device) write(ctx context.Context, buf []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.transport.Write(ctx, buf)
}

func (d *Device) read(ctx context.Context, buf []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.transport.Read(ctx, buf)
}
