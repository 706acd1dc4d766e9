// Package iocache persists the load history of results files.
package iocache

import (
	"sync"

	"github.com/qa4sm/qa4sm-reader/internal/contract"
)

// HistoryStoreManager owns the HistoryStore used by the CLI.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore, or nil before InitStores.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
