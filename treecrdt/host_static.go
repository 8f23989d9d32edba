//go:build !treecrdt_dynamic

package treecrdt

import (
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/roach88/treecrdt-sqlite/autoext"
)

// Static-link shape: the entry point was compiled against the driver
// and calls it directly. The capability table is ignored, nil or not.
func hostCalls(conn *sqlite3.SQLiteConn, _ *autoext.API) (host, error) {
	return host{
		exec: func(query string) error {
			_, err := conn.Exec(query, nil)
			return err
		},
		createFunction: conn.RegisterFunc,
	}, nil
}
