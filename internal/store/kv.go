// Package store persists daily ledgers and expense entries in a flat
// key-value namespace keyed by ISO date. The engine only depends on the KV
// contract; the file and sqlite backends are interchangeable.
package store

// KV is a durable string-keyed byte store. Get reports a missing key via the
// second return value rather than an error, and Keys returns matching keys in
// ascending order.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}
