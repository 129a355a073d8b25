package htu21d

import (
	"fmt"
	"math"
)

// Constants of the partial pressure formula, per datasheet.
const (
	constantA = 8.1332
	constantB = 1762.39
	constantC = 235.66
)

// temperatureCoefficient compensates a measured relative humidity for
// ambient temperatures other than 25 degC.
const temperatureCoefficient = -0.15

func temperatureFromRaw(raw uint16) float64 {
	return float64(raw)*175.72/65536.0 - 46.85
}

func humidityFromRaw(raw uint16) float64 {
	return float64(raw)*125.0/65536.0 - 6.0
}

// CelsiusToFahrenheit converts degrees Celsius to degrees Fahrenheit.
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*9.0/5.0 + 32.0
}

// PartialPressure returns the water vapour partial pressure in mmHg at
// the given ambient temperature (degC).
func PartialPressure(temperature float64) float64 {
	return math.Pow(10, constantA-constantB/(temperature+constantC))
}

// DewPoint returns the dew point (degC) for the given ambient
// temperature (degC) and relative humidity (%RH). The humidity must be
// positive for the dew point to be defined.
func DewPoint(temperature, relativeHumidity float64) (float64, error) {
	if relativeHumidity <= 0 {
		return 0, fmt.Errorf("%w: relative humidity %v is not positive", ErrInvalidArg, relativeHumidity)
	}

	partialPressure := PartialPressure(temperature)

	return -constantB/(math.Log10(relativeHumidity*partialPressure/100.0)-constantA) - constantC, nil
}

// CompensatedHumidity applies the temperature coefficient compensation
// to a measured relative humidity. It holds the stated ±2 %RH accuracy
// from 0 to 80 degC.
func CompensatedHumidity(temperature, relativeHumidity float64) float64 {
	return relativeHumidity + (25.0-temperature)*temperatureCoefficient
}
