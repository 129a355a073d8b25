package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/warthog618/gpio"

	"github.com/mthorley/humiditystn/htu21d"
)

const (
	defaultSDAPin = gpio.GPIO2
	defaultSCLPin = gpio.GPIO3
)

func main() {
	sdaPinNumber := flag.Int("sda", defaultSDAPin, "GPIO pin to drive as the data line")
	sclPinNumber := flag.Int("scl", defaultSCLPin, "GPIO pin to drive as the clock line")
	sdaPullUp := flag.Bool("sda-pullup", true, "Enable the internal pull up on the data line")
	sclPullUp := flag.Bool("scl-pullup", true, "Enable the internal pull up on the clock line")
	interval := flag.Duration("interval", 5*time.Second, "Time interval between readings")

	flag.Parse()

	transport, err := htu21d.NewBitBang(htu21d.BitBangConfig{
		SDAPin:    *sdaPinNumber,
		SCLPin:    *sclPinNumber,
		SDAPullUp: *sdaPullUp,
		SCLPullUp: *sclPullUp,
	})
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := transport.Close(); err != nil {
			fmt.Printf("failed to close transport: %v\n", err)
		}
	}()

	device := htu21d.New(transport)

	ctx := context.Background()
	if err := device.Init(ctx); err != nil {
		panic(err)
	}

	stopTimerSig := make(chan os.Signal, 1)
	signal.Notify(stopTimerSig, os.Interrupt)
	defer signal.Stop(stopTimerSig)

	for {
		select {
		case <-stopTimerSig:
			return
		case <-time.After(*interval):
			temperature, err := device.Temperature(ctx)
			if err != nil {
				fmt.Printf("failed to read temperature: %v\n", err)
				continue
			}

			humidity, err := device.Humidity(ctx)
			if err != nil {
				fmt.Printf("failed to read humidity: %v\n", err)
				continue
			}

			fmt.Printf("Temperature: %.2fC, Humidity: %.2f%%RH\n",
				temperature, htu21d.CompensatedHumidity(temperature, humidity))
		}
	}
}
