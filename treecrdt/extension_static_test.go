//go:build !treecrdt_dynamic

package treecrdt

import (
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/roach88/treecrdt-sqlite/autoext"
)

// Static-link builds must behave identically with and without a
// capability table: the entry point ignores it either way.
func TestInit_Static_IgnoresCapabilityTable(t *testing.T) {
	cases := []struct {
		label string
		api   *autoext.API
	}{
		{"nil table", nil},
		{"ignored table", &autoext.API{}},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			conn := rawConn(t)
			if err := Init(conn, tc.api); err != nil {
				t.Fatalf("Init: %v", err)
			}
			assertVersion(t, conn)
		})
	}
}

func TestInit_Static_Reentrant(t *testing.T) {
	conn := rawConn(t)
	if err := Init(conn, nil); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if err := Init(conn, nil); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	assertVersion(t, conn)
}

func assertVersion(t *testing.T, conn *sqlite3.SQLiteConn) {
	t.Helper()
	got, err := queryString(conn, "SELECT treecrdt_version()")
	if err != nil {
		t.Fatalf("treecrdt_version: %v", err)
	}
	if got != Version {
		t.Errorf("treecrdt_version() = %q, want %q", got, Version)
	}
}
