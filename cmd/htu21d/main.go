package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/mthorley/humiditystn/htu21d"
)

func main() {
	busDevice := flag.String("bus", htu21d.DefaultBusDevice, "i2c-dev bus device the sensor is attached to")
	flag.Parse()

	transport, err := htu21d.NewDevfs(*busDevice)
	if err != nil {
		panic(err)
	}
	defer transport.Close()

	device := htu21d.New(transport)

	ctx := context.Background()
	if err := device.Init(ctx); err != nil {
		panic(err)
	}

	temperature, err := device.Temperature(ctx)
	if err != nil {
		panic(err)
	}

	humidity, err := device.Humidity(ctx)
	if err != nil {
		panic(err)
	}

	compensated := htu21d.CompensatedHumidity(temperature, humidity)
	dewPoint, err := htu21d.DewPoint(temperature, compensated)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Temperature: %.2fC (%.2fF), Humidity: %.2f%%RH, Dew point: %.2fC\n",
		temperature, htu21d.CelsiusToFahrenheit(temperature), compensated, dewPoint)
}
