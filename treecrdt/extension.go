package treecrdt

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/roach88/treecrdt-sqlite/autoext"
)

// Version is reported by treecrdt_version().
const Version = "0.1.0"

//go:embed schema.sql
var schemaSQL string

// ErrNilAPI reports that a dynamic-load build was handed no capability
// table. Static-link builds never return it.
var ErrNilAPI = errors.New("treecrdt: nil capability table in dynamic-load build")

var (
	siteOnce sync.Once
	siteID   string
)

// SiteID returns the replica identifier of this process. Generated on
// first use and stable for the process lifetime; every session reports
// the same value through treecrdt_site_id().
func SiteID() string {
	siteOnce.Do(func() { siteID = uuid.NewString() })
	return siteID
}

// Init equips one session with the treecrdt extension: op-log schema
// plus the treecrdt_* SQL functions. The host invokes it once per new
// connection; concurrent invocations with distinct connections are
// safe.
//
// api is the session capability table. Static-link builds receive nil
// and ignore it; dynamic-load builds require it and fail with ErrNilAPI
// when it is missing.
func Init(conn *sqlite3.SQLiteConn, api *autoext.API) error {
	h, err := hostCalls(conn, api)
	if err != nil {
		return err
	}

	if err := h.exec(schemaSQL); err != nil {
		return fmt.Errorf("treecrdt: schema init failed: %w", err)
	}

	for _, fn := range sessionFunctions(conn) {
		if err := h.createFunction(fn.name, fn.impl, fn.pure); err != nil {
			return fmt.Errorf("treecrdt: register %s: %w", fn.name, err)
		}
	}
	return nil
}
