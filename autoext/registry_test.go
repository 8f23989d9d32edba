package autoext

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEntryPoint bumps calls once per session and installs a marker
// function so tests can tell an equipped session from a bare one.
func countingEntryPoint(calls *int32) EntryPoint {
	return func(conn *sqlite3.SQLiteConn, _ *API) error {
		atomic.AddInt32(calls, 1)
		return conn.RegisterFunc("autoext_marker", func() int64 { return 1 }, true)
	}
}

func setup(t *testing.T) {
	t.Helper()
	EnsureDriver()
	reset()
	t.Cleanup(reset)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open(DriverName, t.TempDir()+"/autoext.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnsureDriver_Idempotent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EnsureDriver()
		}()
	}
	wg.Wait()

	count := 0
	for _, name := range sql.Drivers() {
		if name == DriverName {
			count++
		}
	}
	assert.Equal(t, 1, count, "driver must be registered exactly once")
}

func TestRegister_InvokedOncePerSession(t *testing.T) {
	setup(t)

	var calls int32
	Register(countingEntryPoint(&calls))

	db := openDB(t)
	require.NoError(t, db.Ping())

	var marker int64
	require.NoError(t, db.QueryRow("SELECT autoext_marker()").Scan(&marker))
	assert.Equal(t, int64(1), marker)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRegister_SameFunctionTwiceIsNoOp(t *testing.T) {
	setup(t)

	var calls int32
	ep := countingEntryPoint(&calls)
	Register(ep)
	Register(ep)

	db := openDB(t)
	require.NoError(t, db.Ping())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "duplicate Register must not double-invoke")
}

func TestRegister_NilIsIgnored(t *testing.T) {
	setup(t)
	Register(nil)

	db := openDB(t)
	require.NoError(t, db.Ping())
}

func TestRegister_PreservesOrder(t *testing.T) {
	setup(t)

	var mu sync.Mutex
	var order []string
	named := func(name string) EntryPoint {
		return func(*sqlite3.SQLiteConn, *API) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}
	Register(named("first"))
	Register(named("second"))
	Register(named("third"))

	db := openDB(t)
	require.NoError(t, db.Ping())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestConnectHook_AppliesToEveryConnection(t *testing.T) {
	setup(t)

	var calls int32
	Register(countingEntryPoint(&calls))

	db := openDB(t)
	db.SetMaxOpenConns(3)
	db.SetMaxIdleConns(3)

	// Hold three pool connections at once so each one is freshly opened.
	ctx := context.Background()
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		conns[i] = conn
	}
	for _, conn := range conns {
		var marker int64
		require.NoError(t, conn.QueryRowContext(ctx, "SELECT autoext_marker()").Scan(&marker))
		assert.Equal(t, int64(1), marker)
		require.NoError(t, conn.Close())
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestEntryPointError_FailsSessionOpen(t *testing.T) {
	setup(t)

	boom := errors.New("schema init failed")
	Register(func(*sqlite3.SQLiteConn, *API) error { return boom })

	db := openDB(t)
	err := db.Ping()
	require.Error(t, err)
	assert.ErrorContains(t, err, "schema init failed")
}

func TestEntryPointError_SkipsLaterEntryPoints(t *testing.T) {
	setup(t)

	var calls int32
	Register(func(*sqlite3.SQLiteConn, *API) error { return errors.New("first failed") })
	Register(countingEntryPoint(&calls))

	db := openDB(t)
	require.Error(t, db.Ping())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "entry points after a failure must not run")
}

func TestInjectedRegistrationFailure_EverySessionReports(t *testing.T) {
	setup(t)

	setFailure(errors.New("simulated allocation failure"))

	db := openDB(t)
	for i := 0; i < 3; i++ {
		err := db.Ping()
		require.Error(t, err, "session %d must fail", i)
		assert.ErrorContains(t, err, "simulated allocation failure")
		assert.NotEmpty(t, err.Error())
	}
}

func TestConcurrentSessions_AllEquipped(t *testing.T) {
	setup(t)

	var calls int32
	Register(countingEntryPoint(&calls))

	path := t.TempDir() + "/concurrent.db"

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := sql.Open(DriverName, path)
			if err != nil {
				errs[i] = err
				return
			}
			defer db.Close()
			var marker int64
			errs[i] = db.QueryRow("SELECT autoext_marker()").Scan(&marker)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "session %d", i)
	}
}
