// Package cache provides a generic, thread-safe LRU cache whose entries also
// expire after a fixed time to live.
//
// The cache evicts the least recently used entry once it is full, and treats
// an entry older than the TTL as absent. Expired entries are dropped lazily on
// access or eagerly with Purge.
//
//	results := cache.New[string, []Medicine](64, time.Minute)
//	results.Put("paracetamol", meds)
//	if meds, ok := results.Get("paracetamol"); ok {
//		// fresh hit
//	}
//
// A TTL of zero disables expiry, leaving a plain LRU.
package cache
