package humiditystn

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

func TestSensorProducer_Process(t *testing.T) {
	readings := &HumidityReadings{
		Temperature: 22.1,
		Humidity:    51.3,
		DewPoint:    11.8,
	}

	provider := &MockHumidityProvider{}
	provider.On("Readings").Return(readings, nil)

	before := time.Now().Unix()

	mockDS := &MockDataStore{}
	mockDS.On("Write", mock.MatchedBy(func(row ObservationRow) bool {
		return row.Readings == *readings &&
			row.IntervalSeconds == 30 &&
			row.Timestamp >= before
	})).Return(nil)

	producer := NewSensorProducer(provider, mockDS)
	producer.Process(30 * time.Second)

	if !provider.AssertExpectations(t) {
		t.FailNow()
	}

	if !mockDS.AssertExpectations(t) {
		t.FailNow()
	}
}

func TestSensorProducer_ProcessReadingsError(t *testing.T) {
	provider := &MockHumidityProvider{}
	provider.On("Readings").Return(nil, errors.New("transfer not acknowledged"))

	mockDS := &MockDataStore{}

	producer := NewSensorProducer(provider, mockDS)
	producer.Process(30 * time.Second)

	if !provider.AssertExpectations(t) {
		t.FailNow()
	}

	mockDS.AssertNotCalled(t, "Write", mock.Anything)
}

func TestSensorProducer_StopHaltsRun(t *testing.T) {
	provider := &MockHumidityProvider{}
	mockDS := &MockDataStore{}

	producer := NewSensorProducer(provider, mockDS)

	done := make(chan struct{})
	go func() {
		producer.Run(time.Hour)
		close(done)
	}()

	<-producer.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run loop did not halt after Stop")
	}

	mockDS.AssertNotCalled(t, "Write", mock.Anything)
}
