package storage

import "fmt"

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendPebble = "pebble"
)

// Open creates a storage backend by name. Path is ignored by the memory
// backend.
func Open(backend, path string) (DB, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryDB(), nil
	case BackendPebble:
		return OpenPebble(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
