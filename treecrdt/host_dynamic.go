//go:build treecrdt_dynamic

package treecrdt

import (
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/roach88/treecrdt-sqlite/autoext"
)

// Dynamic-load shape: the host is reachable only through the capability
// table. A missing table is a deterministic, reported failure.
func hostCalls(_ *sqlite3.SQLiteConn, api *autoext.API) (host, error) {
	if api == nil {
		return host{}, ErrNilAPI
	}
	return host{
		exec:           api.Exec,
		createFunction: api.CreateFunction,
	}, nil
}
