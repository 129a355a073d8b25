package humiditystn

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/mthorley/humiditystn/htu21d"
)

// HumiditySensorProvider provides a way to setup and collect humidity data readings.
type HumiditySensorProvider interface {
	SensorProvider
	Readings() (*HumidityReadings, error)
}

// HumidityReadings are the sensor readings about measurements such as relative humidity.
type HumidityReadings struct {
	Temperature float64 // degC
	Humidity    float64 // %RH, temperature compensated
	DewPoint    float64 // degC
}

// HTU21DSensorProvider provides temperature and humidity readings using the HTU21D chip.
type HTU21DSensorProvider struct {
	config HTU21DSensorProviderConfig

	transport htu21d.Transport
	device    *htu21d.Device
}

// HTU21DSensorProviderConfig is used for setup of the HTU21D.
type HTU21DSensorProviderConfig struct {
	// I2cBusDevice is the i2c-dev device to use, e.g. /dev/i2c-1.
	// Ignored when BitBang is set.
	I2cBusDevice string `json:"i2cBusDevice"`

	// BitBang drives the bus on GPIO pins instead of i2c-dev.
	BitBang *BitBangPinConfig `json:"bitbang,omitempty"`
}

// BitBangPinConfig selects the pins for a GPIO driven bus.
type BitBangPinConfig struct {
	SDAPin    int  `json:"sdaPin"`
	SCLPin    int  `json:"sclPin"`
	SDAPullUp bool `json:"sdaPullup"`
	SCLPullUp bool `json:"sclPullup"`
}

// NewHTU21DSensorProvider creates and returns a HTU21DSensorProvider.
func NewHTU21DSensorProvider(config HTU21DSensorProviderConfig) *HTU21DSensorProvider {
	if config.I2cBusDevice == "" {
		config.I2cBusDevice = htu21d.DefaultBusDevice
	}

	return &HTU21DSensorProvider{config: config}
}

// Connect initialises the HTU21D connection, verifying the sensor is present and soft
// resetting it.
func (hsp *HTU21DSensorProvider) Connect() error {
	transport, err := hsp.openTransport()
	if err != nil {
		return err
	}

	device := htu21d.New(transport)
	if err := device.Init(context.Background()); err != nil {
		if closeErr := transport.Close(); closeErr != nil {
			log.WithError(closeErr).
				WithField("component", "humidity provider").
				Error("transport failed to close")
		}

		return err
	}

	hsp.transport = transport
	hsp.device = device

	return nil
}

func (hsp *HTU21DSensorProvider) openTransport() (htu21d.Transport, error) {
	if bb := hsp.config.BitBang; bb != nil {
		return htu21d.NewBitBang(htu21d.BitBangConfig{
			SDAPin:    bb.SDAPin,
			SCLPin:    bb.SCLPin,
			SDAPullUp: bb.SDAPullUp,
			SCLPullUp: bb.SCLPullUp,
		})
	}

	return htu21d.NewDevfs(hsp.config.I2cBusDevice)
}

// Readings returns the set of HumidityReadings provided by the HTU21D.
func (hsp *HTU21DSensorProvider) Readings() (*HumidityReadings, error) {
	ctx := context.Background()

	temperature, err := hsp.device.Temperature(ctx)
	if err != nil {
		return nil, err
	}

	humidity, err := hsp.device.Humidity(ctx)
	if err != nil {
		return nil, err
	}

	compensated := htu21d.CompensatedHumidity(temperature, humidity)

	dewPoint, err := htu21d.DewPoint(temperature, compensated)
	if err != nil {
		// A non-positive humidity has no dew point; the reading itself
		// is suspect, so drop the whole observation.
		return nil, err
	}

	return &HumidityReadings{
		Temperature: temperature,
		Humidity:    compensated,
		DewPoint:    dewPoint,
	}, nil
}

// Disconnect closes the connection to the HTU21D.
func (hsp *HTU21DSensorProvider) Disconnect() {
	if hsp.device == nil {
		log.WithField("component", "humidity provider").
			Debug("attempted to disconnect not connected provider")
		return
	}

	if err := hsp.transport.Close(); err != nil {
		log.WithError(err).
			WithField("component", "humidity provider").
			Error("transport failed to close")
	}
}
