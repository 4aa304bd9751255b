package cache

import "time"

// Store is a key-value cache with per-entry TTL in minutes.
// Get must report a missing or expired key with ok == false, which is how
// callers tell "nothing cached" apart from any stored value, including a
// stored negative marker.
type Store interface {
	Get(key string) (value []byte, ok bool)
	Put(key string, value []byte, minutes int)
}

// Clock returns the current time, swapped out in tests
type Clock func() time.Time

func ttl(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
