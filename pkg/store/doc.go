// Package store publishes completed race collections to Redis.
//
// The store is a sink, not a cache: the collector never reads from it and
// intermediate pages are never written. Each entry holds the full record
// sequence of one race together with the collection time and an expiry.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := store.NewManager(redisClient)
//
//	key := store.Key{EventID: "6855879561074155264", RaceID: "480016"}
//	entry := store.NewEntry(key, records, 24*time.Hour)
//
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, store.ErrNotFound) {
//		// nothing published for this race
//	}
//
// # Metrics
//
//   - sporthive_store_hits_total - Entries found by Get
//   - sporthive_store_misses_total - Get on a missing or expired key
//   - sporthive_store_size_bytes - Bytes written or read
//   - sporthive_store_errors_total{operation} - Redis or decode failures
package store
