//go:build !treecrdt_dynamic

package autoext

import sqlite3 "github.com/mattn/go-sqlite3"

// Static-link shape: entry points were compiled against the driver
// directly and need no indirection table.
func newSessionAPI(*sqlite3.SQLiteConn) *API { return nil }
