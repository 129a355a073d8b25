package humiditystn

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// SensorProducer collects humidity station readings from the sensor and persists them.
type SensorProducer struct {
	provider  HumiditySensorProvider
	datastore DataStore
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewSensorProducer creates and returns a SensorProducer.
func NewSensorProducer(provider HumiditySensorProvider, datastore DataStore) *SensorProducer {
	return &SensorProducer{
		provider:  provider,
		datastore: datastore,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run starts the collector for gathering and saving readings.
func (sp *SensorProducer) Run(interval time.Duration) {
	for {
		select {
		case <-sp.stopCh:
			sp.stoppedCh <- struct{}{}
			return
		case <-time.After(interval):
		}

		sp.Process(interval)
	}
}

// Process performs a single poll and persist cycle and is exposed for testing.
func (sp *SensorProducer) Process(interval time.Duration) {
	readings, err := sp.provider.Readings()
	if err != nil {
		log.WithError(err).
			WithField("component", "SensorProducer").
			WithField("event", "Readings").
			Error("failed to collect humidity readings")
		return
	}

	row := ObservationRow{
		Timestamp:       time.Now().Unix(),
		Readings:        *readings,
		IntervalSeconds: int(interval / time.Second),
	}

	if err := sp.datastore.Write(row); err != nil {
		log.WithError(err).
			WithField("component", "SensorProducer").
			WithField("event", "Write").
			Error("failed to persist humidity readings")
	}
}

// Stop causes the run loop to be halted, returning a channel that is written to when the loop has completed any
// work.
func (sp *SensorProducer) Stop() chan struct{} {
	sp.stopCh <- struct{}{}
	return sp.stoppedCh
}
