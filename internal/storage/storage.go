// Package storage defines the load/save-by-key contract the repositories
// persist through. Implementations must tolerate absent keys and corrupt
// stored values by falling back rather than erroring out to callers.
package storage

// Store is the on-device key-value persistence collaborator. LoadJSON
// reports whether a usable value was decoded into out; on false the
// caller keeps its fallback. LoadNumber returns the fallback for absent
// or non-numeric values.
type Store interface {
	LoadNumber(key string, fallback int) int
	SaveNumber(key string, value int) error
	LoadJSON(key string, out any) bool
	SaveJSON(key string, value any) error
	Close() error
}
