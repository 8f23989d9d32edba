// Package treecrdtsqlite attaches the treecrdt extension to every
// SQLite session opened through its driver, without any explicit
// wiring in the embedding application:
//
//	import _ "github.com/roach88/treecrdt-sqlite"
//
//	db, err := sql.Open("sqlite3_treecrdt", "app.db")
//
// The blank import is the whole integration: package initialization
// runs before main, ensures the driver exists, and publishes the
// extension entry point into the auto-extension registry. From then on
// the host applies the extension to each new session it opens.
//
// Registration failures at load time have no caller to report to and
// are absorbed; they surface later as per-session initialization
// errors, which do have a proper error channel. Set TREECRDT_DEBUG=1
// to get a stderr diagnostic at load time instead of silence.
package treecrdtsqlite

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/roach88/treecrdt-sqlite/autoext"
	"github.com/roach88/treecrdt-sqlite/treecrdt"
)

// DriverName is the database/sql driver the bridge installs.
const DriverName = autoext.DriverName

type bridgeEnv struct {
	Debug bool `env:"TREECRDT_DEBUG"`
}

// log is a nop unless TREECRDT_DEBUG is set. Initialized before init
// runs, so the activation routine can use it.
var log = func() zerolog.Logger {
	var cfg bridgeEnv
	if err := env.Parse(&cfg); err != nil || !cfg.Debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", "treecrdt-sqlite").Logger()
}()

func init() {
	defer func() {
		// No caller exists at load time. A panic here (for example a
		// driver-name collision) must not kill the process; every
		// session opened later reports the failure instead.
		if r := recover(); r != nil {
			log.Error().Interface("cause", r).Msg("auto registration failed")
		}
	}()

	autoext.EnsureDriver()
	autoext.Register(treecrdt.Init)
	log.Debug().Str("driver", DriverName).Msg("treecrdt extension registered")
}
