package treecrdt

import (
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// host is the narrow set of host calls Init needs at install time.
// Which build shape backs it is decided by build tags (hostCalls).
type host struct {
	exec           func(query string) error
	createFunction func(name string, impl any, pure bool) error
}

type sqlFunc struct {
	name string
	impl any
	pure bool
}

// sessionFunctions builds the treecrdt_* function family for one
// session. Each closure captures the session connection; op-log reads
// and writes run as nested statements on the same connection, which
// SQLite permits inside a user function.
func sessionFunctions(conn *sqlite3.SQLiteConn) []sqlFunc {
	return []sqlFunc{
		{"treecrdt_version", func() string { return Version }, true},
		{"treecrdt_site_id", func() string { return SiteID() }, false},
		{"treecrdt_doc_id", func() (string, error) {
			return docID(conn)
		}, false},
		{"treecrdt_set_doc_id", func(id string) (string, error) {
			return setDocID(conn, id)
		}, false},
		{"treecrdt_append_op", func(replica string, counter, lamport int64, kind string, parent any, node string, newParent, position, payload any) (int64, error) {
			return appendOp(conn, opRecord{
				replica:   replica,
				counter:   counter,
				lamport:   lamport,
				kind:      kind,
				parent:    parent,
				node:      node,
				newParent: newParent,
				position:  position,
				payload:   payload,
			})
		}, false},
		{"treecrdt_append_ops", func(opsJSON string) (int64, error) {
			return appendOps(conn, opsJSON)
		}, false},
		{"treecrdt_ops_since", func(lamport int64) (string, error) {
			return opsSince(conn, lamport)
		}, false},
		{"treecrdt_head_lamport", func() (int64, error) {
			return queryInt64(conn, `SELECT COALESCE(MAX(lamport), 0) FROM treecrdt_ops`)
		}, false},
		{"treecrdt_replica_max_counter", func(replica string) (int64, error) {
			return queryInt64(conn, `SELECT COALESCE(MAX(counter), 0) FROM treecrdt_ops WHERE replica = ?`, replica)
		}, false},
		{"treecrdt_op_count", func() (int64, error) {
			return queryInt64(conn, `SELECT COUNT(*) FROM treecrdt_ops`)
		}, false},
	}
}

// opRecord is one row of the op log as passed to treecrdt_append_op.
// parent, newParent, position and payload are nullable and arrive as
// whatever SQLite handed the function (int64, string, []byte or nil).
type opRecord struct {
	replica   string
	counter   int64
	lamport   int64
	kind      string
	parent    any
	node      string
	newParent any
	position  any
	payload   any
}

// appendOp inserts one op. Ops carry no document identity of their
// own, so the log refuses appends until treecrdt_set_doc_id has run.
// Idempotent on (replica, counter): replaying an already-logged op
// reports 0 rows written and is not an error.
func appendOp(conn *sqlite3.SQLiteConn, op opRecord) (int64, error) {
	if err := requireDocID(conn, "treecrdt_append_op"); err != nil {
		return 0, err
	}
	return insertOp(conn, op)
}

func insertOp(conn *sqlite3.SQLiteConn, op opRecord) (int64, error) {
	return execStmt(conn, `
		INSERT OR IGNORE INTO treecrdt_ops
			(replica, counter, lamport, kind, parent, node, new_parent, position, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.replica, op.counter, op.lamport, op.kind,
		op.parent, op.node, op.newParent, op.position, op.payload)
}

// loadDocID distinguishes an unset doc id from an empty one.
func loadDocID(conn *sqlite3.SQLiteConn) (string, bool, error) {
	return queryStringRow(conn, `SELECT value FROM treecrdt_meta WHERE key = 'doc_id'`)
}

func requireDocID(conn *sqlite3.SQLiteConn, fn string) error {
	_, found, err := loadDocID(conn)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: doc_id not set (call treecrdt_set_doc_id)", fn)
	}
	return nil
}

func docID(conn *sqlite3.SQLiteConn) (string, error) {
	id, _, err := loadDocID(conn)
	return id, err
}

// setDocID is set-once: the ops already in the log are attributed to
// the stored id, so changing it would orphan them. Re-setting the same
// value succeeds.
func setDocID(conn *sqlite3.SQLiteConn, id string) (string, error) {
	existing, found, err := loadDocID(conn)
	if err != nil {
		return "", err
	}
	if found {
		if existing != id {
			return "", fmt.Errorf("treecrdt_set_doc_id: doc_id already set (cannot change)")
		}
		return id, nil
	}
	if _, err := execStmt(conn, `INSERT INTO treecrdt_meta (key, value) VALUES ('doc_id', ?)`, id); err != nil {
		return "", err
	}
	return id, nil
}
