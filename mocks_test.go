package humiditystn

import (
	"encoding/json"
	"io/ioutil"
	"path/filepath"

	"github.com/stretchr/testify/mock"
)

// MockDataStore is a testify mock of the DataStore interface.
type MockDataStore struct {
	mock.Mock
}

func (m *MockDataStore) Write(row ObservationRow) error {
	args := m.Called(row)
	return args.Error(0)
}

func (m *MockDataStore) ReadUnpublished() ([]ObservationRow, error) {
	args := m.Called()
	return args.Get(0).([]ObservationRow), args.Error(1)
}

func (m *MockDataStore) UpdatePublished(minTimestamp, maxTimestamp int64) error {
	args := m.Called(minTimestamp, maxTimestamp)
	return args.Error(0)
}

// MockHumidityProvider is a testify mock of the HumiditySensorProvider interface.
type MockHumidityProvider struct {
	mock.Mock
}

func (m *MockHumidityProvider) Connect() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockHumidityProvider) Disconnect() {
	m.Called()
}

func (m *MockHumidityProvider) Readings() (*HumidityReadings, error) {
	args := m.Called()
	readings := args.Get(0)
	if readings == nil {
		return nil, args.Error(1)
	}
	return readings.(*HumidityReadings), args.Error(1)
}

func loadJSONTestDataset(name string, into interface{}) error {
	bytes, err := ioutil.ReadFile(filepath.Join("testdata", name+".json"))
	if err != nil {
		return err
	}

	return json.Unmarshal(bytes, into)
}
