package autoext

// API is the session capability table: the host calls an entry point
// needs while installing itself into a connection.
//
// Whether an entry point receives one is a link-shape decision made at
// build time, not at run time:
//
//   - Static-link builds (the default) compile the extension against
//     the driver's real methods. The hook passes nil and entry points
//     must ignore the parameter entirely.
//   - Dynamic-load builds (-tags treecrdt_dynamic) reach the host only
//     through this table. The hook passes a table built from the live
//     connection, and a nil table is a deterministic, reported error.
type API struct {
	// CreateFunction registers a SQL function on the session. impl
	// follows the contract of sqlite3.SQLiteConn.RegisterFunc.
	CreateFunction func(name string, impl any, pure bool) error

	// Exec runs one or more statements on the session without results.
	Exec func(query string) error
}
