package purchase

import "sync"

// MemoryMarkerStore is an in-process read-once marker store with the
// same consume-on-read contract as the cache tier. It backs tests and
// single-instance deployments running without a cache.
type MemoryMarkerStore struct {
	mu      sync.Mutex
	markers map[string]bool
	wallets []string
}

func NewMemoryMarkerStore() *MemoryMarkerStore {
	return &MemoryMarkerStore{markers: make(map[string]bool)}
}

func (s *MemoryMarkerStore) SetPurchaseMarker(sessionID, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[sessionID+"|"+videoID] = true
	return nil
}

func (s *MemoryMarkerStore) ConsumePurchaseMarker(sessionID, videoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionID + "|" + videoID
	present := s.markers[key]
	delete(s.markers, key)
	return present, nil
}

func (s *MemoryMarkerStore) FallbackWallets() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.wallets...), nil
}

func (s *MemoryMarkerStore) SetFallbackWallets(entries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = append([]string(nil), entries...)
	return nil
}

func (s *MemoryMarkerStore) ClearFallbackWallets() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = nil
	return nil
}
