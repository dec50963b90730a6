package identity

import "time"

var defaultStore *Store

// SetupStore wires the process-wide identity store. Called once on app
// start; the middleware and controllers read it via GetStore.
func SetupStore(resolver *Resolver, ttl time.Duration) *Store {
	defaultStore = NewStore(resolver, ttl)
	return defaultStore
}

// GetStore returns the process-wide identity store
func GetStore() *Store {
	if defaultStore == nil {
		panic("identity store not initialized. Call SetupStore first.")
	}
	return defaultStore
}
