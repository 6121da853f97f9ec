package iocache

import (
	"sync"

	"github.com/teampulse/teampulse/internal/contract"
)

// StoreManager manages the configured store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	enrichment   contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetEnrichmentStore returns the enrichment CacheStore.
func (mgr *StoreManager) GetEnrichmentStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.enrichment
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
