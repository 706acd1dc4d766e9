package iocache

import (
	"time"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginLoad implements the HistoryStore interface.
func (m *MockHistoryStore) BeginLoad(filePath string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(filePath, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordVariable implements the HistoryStore interface.
func (m *MockHistoryStore) RecordVariable(loadID int64, record schema.LoadVariableRecord) error {
	args := m.Called(loadID, record)
	return args.Error(0)
}

// EndLoad implements the HistoryStore interface.
func (m *MockHistoryStore) EndLoad(loadID int64, endTime time.Time, summary contract.LoadSummary) error {
	args := m.Called(loadID, endTime, summary)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllLoads implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllLoads() ([]schema.LoadRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.LoadRecord)
	return records, args.Error(1)
}

// GetAllVariables implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllVariables() ([]schema.LoadVariableRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.LoadVariableRecord)
	return records, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
