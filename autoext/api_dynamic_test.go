//go:build treecrdt_dynamic

package autoext

import (
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestDynamicBuild_EntryPointsGetLiveTable(t *testing.T) {
	setup(t)

	Register(func(_ *sqlite3.SQLiteConn, api *API) error {
		if api == nil {
			t.Error("dynamic-load builds must pass a capability table")
			return nil
		}
		if err := api.Exec("CREATE TABLE IF NOT EXISTS via_table (x INTEGER)"); err != nil {
			return err
		}
		return api.CreateFunction("via_table_marker", func() int64 { return 1 }, true)
	})

	db := openDB(t)
	require.NoError(t, db.Ping())

	var marker int64
	require.NoError(t, db.QueryRow("SELECT via_table_marker()").Scan(&marker))
	require.Equal(t, int64(1), marker)
}
