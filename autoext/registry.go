package autoext

import (
	"fmt"
	"reflect"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// EntryPoint is the function a module exposes for per-session
// installation. The host invokes it once for every new connection,
// passing the live connection and the session capability table. The
// table is nil in static-link builds and non-nil in dynamic-load
// builds (selected with -tags treecrdt_dynamic); see API.
//
// A non-nil error fails that connection's open. The error string is
// the diagnostic channel: callers of sql.Open see it verbatim.
type EntryPoint func(conn *sqlite3.SQLiteConn, api *API) error

type registryEntry struct {
	fn EntryPoint
	// key identifies the function for idempotent re-registration.
	key uintptr
}

var registry struct {
	mu      sync.Mutex
	entries []registryEntry
	// failure, when set, poisons every subsequent connection open.
	// A failed registration has no error channel at load time; it
	// becomes observable one session at a time instead.
	failure error
}

// Register appends an entry point to the global registry. Registering
// the same function twice is a no-op. Connections opened before the
// call are unaffected.
func Register(fn EntryPoint) {
	if fn == nil {
		return
	}
	key := reflect.ValueOf(fn).Pointer()

	registry.mu.Lock()
	defer registry.mu.Unlock()
	for _, e := range registry.entries {
		if e.key == key {
			return
		}
	}
	registry.entries = append(registry.entries, registryEntry{fn: fn, key: key})
}

// runEntryPoints is the ConnectHook installed by EnsureDriver. It runs
// once per new connection, before the connection is handed to the pool.
func runEntryPoints(conn *sqlite3.SQLiteConn) error {
	registry.mu.Lock()
	failure := registry.failure
	snapshot := make([]registryEntry, len(registry.entries))
	copy(snapshot, registry.entries)
	registry.mu.Unlock()

	if failure != nil {
		return fmt.Errorf("auto extension registration failed, session unusable: %w", failure)
	}

	// Invoke outside the lock: entry points run statements on conn and
	// may be slow.
	for _, e := range snapshot {
		api := newSessionAPI(conn)
		if err := e.fn(conn, api); err != nil {
			return fmt.Errorf("extension init: %w", err)
		}
	}
	return nil
}

// reset clears the registry and any injected failure. Tests only;
// mirrors sqlite3_reset_auto_extension.
func reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.entries = nil
	registry.failure = nil
}

// setFailure marks the registration as having failed, so every session
// opened afterwards reports an error. Tests only.
func setFailure(err error) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.failure = err
}
