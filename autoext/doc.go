// Package autoext implements process-wide auto-registration of SQLite
// extension entry points.
//
// The mattn/go-sqlite3 driver does not expose sqlite3_auto_extension, so
// this package carries its own rendition of the mechanism: a global,
// ordered registry of entry points, and a named database/sql driver
// whose ConnectHook walks that registry for every new connection.
//
// ARCHITECTURE:
//
// Two cooperating pieces:
//
//   - EnsureDriver is the readiness guarantor. It installs the
//     "sqlite3_treecrdt" driver exactly once per process, guarded by a
//     sync.Once. Calling it any number of times, from any goroutine,
//     before or after anything else, is safe and has no effect beyond
//     the first call.
//   - Register appends an entry point to the global registry. A second
//     Register of the same function is a no-op, matching the documented
//     behavior of sqlite3_auto_extension. Entry points registered after
//     connections already exist only affect connections opened later.
//
// When database/sql opens a new connection on the driver, the hook
// snapshots the registry under its lock and invokes each entry point in
// registration order with the live connection and the session
// capability table. The first error aborts that connection's setup and
// is returned to whoever opened it; no retry happens here.
//
// Entry points may be invoked concurrently for distinct connections.
// The registry is never mutated while a snapshot is being walked.
package autoext
