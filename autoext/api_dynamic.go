//go:build treecrdt_dynamic

package autoext

import sqlite3 "github.com/mattn/go-sqlite3"

// Dynamic-load shape: the host's calls are reachable only through the
// capability table built from the live connection.
func newSessionAPI(conn *sqlite3.SQLiteConn) *API {
	return &API{
		CreateFunction: conn.RegisterFunc,
		Exec: func(query string) error {
			_, err := conn.Exec(query, nil)
			return err
		},
	}
}
