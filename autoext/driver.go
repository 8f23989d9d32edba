package autoext

import (
	"database/sql"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver installed by EnsureDriver.
// Sessions opened on it get every registered entry point applied.
const DriverName = "sqlite3_treecrdt"

var driverOnce sync.Once

// EnsureDriver installs the auto-extension driver. Idempotent: the
// first call registers, every later call is a no-op. Safe to call
// before any other initialization and from multiple goroutines.
//
// database/sql panics on duplicate registration and offers no way to
// unregister, which is why this is a sync.Once rather than a check of
// sql.Drivers().
func EnsureDriver() {
	driverOnce.Do(func() {
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: runEntryPoints,
		})
	})
}
