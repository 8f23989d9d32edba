package treecrdt

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// jsonOp is the wire shape of one op in the JSON batch interface.
// Nullable columns are pointers so an absent field survives a
// roundtrip through treecrdt_ops_since and back into
// treecrdt_append_ops unchanged.
type jsonOp struct {
	Replica   string  `json:"replica"`
	Counter   int64   `json:"counter"`
	Lamport   int64   `json:"lamport"`
	Kind      string  `json:"kind"`
	Parent    *string `json:"parent"`
	Node      string  `json:"node"`
	NewParent *string `json:"new_parent"`
	Position  *int64  `json:"position"`
	Payload   []byte  `json:"payload"`
}

func (op jsonOp) record() opRecord {
	rec := opRecord{
		replica: op.Replica,
		counter: op.Counter,
		lamport: op.Lamport,
		kind:    op.Kind,
		node:    op.Node,
	}
	if op.Parent != nil {
		rec.parent = *op.Parent
	}
	if op.NewParent != nil {
		rec.newParent = *op.NewParent
	}
	if op.Position != nil {
		rec.position = *op.Position
	}
	if op.Payload != nil {
		rec.payload = op.Payload
	}
	return rec
}

// appendOps inserts a JSON array of ops as one unit, returning the
// number of rows actually written. Replayed ops count 0, same as
// treecrdt_append_op. The batch runs inside a savepoint so a bad op
// midway leaves no partial batch behind.
func appendOps(conn *sqlite3.SQLiteConn, opsJSON string) (int64, error) {
	var ops []jsonOp
	if err := json.Unmarshal([]byte(opsJSON), &ops); err != nil {
		return 0, fmt.Errorf("treecrdt_append_ops: invalid ops JSON: %w", err)
	}
	if err := requireDocID(conn, "treecrdt_append_ops"); err != nil {
		return 0, err
	}
	if len(ops) == 0 {
		return 0, nil
	}

	if _, err := execStmt(conn, `SAVEPOINT treecrdt_append_ops`); err != nil {
		return 0, err
	}
	var inserted int64
	for _, op := range ops {
		n, err := insertOp(conn, op.record())
		if err != nil {
			execStmt(conn, `ROLLBACK TO treecrdt_append_ops`)
			execStmt(conn, `RELEASE treecrdt_append_ops`)
			return 0, fmt.Errorf("treecrdt_append_ops: op (%s, %d): %w", op.Replica, op.Counter, err)
		}
		inserted += n
	}
	if _, err := execStmt(conn, `RELEASE treecrdt_append_ops`); err != nil {
		return 0, err
	}
	return inserted, nil
}

// opsSince returns, as a JSON array, every op with lamport strictly
// greater than the given clock, in (lamport, replica, counter) order.
// An empty result is "[]" rather than JSON null so callers can feed it
// straight back into treecrdt_append_ops.
func opsSince(conn *sqlite3.SQLiteConn, lamport int64) (string, error) {
	rows, err := conn.Query(`
		SELECT replica, counter, lamport, kind, parent, node, new_parent, position, payload
		FROM treecrdt_ops
		WHERE lamport > ?
		ORDER BY lamport, replica, counter`, []driver.Value{lamport})
	if err != nil {
		return "", err
	}
	defer rows.Close()

	ops := []jsonOp{}
	dest := make([]driver.Value, len(rows.Columns()))
	for {
		if err := rows.Next(dest); err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
		op, err := scanOp(dest)
		if err != nil {
			return "", err
		}
		ops = append(ops, op)
	}

	out, err := json.Marshal(ops)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func scanOp(dest []driver.Value) (jsonOp, error) {
	var op jsonOp
	var err error
	if op.Replica, err = columnString(dest[0]); err != nil {
		return op, err
	}
	if op.Counter, err = columnInt64(dest[1]); err != nil {
		return op, err
	}
	if op.Lamport, err = columnInt64(dest[2]); err != nil {
		return op, err
	}
	if op.Kind, err = columnString(dest[3]); err != nil {
		return op, err
	}
	if op.Parent, err = columnNullString(dest[4]); err != nil {
		return op, err
	}
	if op.Node, err = columnString(dest[5]); err != nil {
		return op, err
	}
	if op.NewParent, err = columnNullString(dest[6]); err != nil {
		return op, err
	}
	if op.Position, err = columnNullInt64(dest[7]); err != nil {
		return op, err
	}
	if b, ok := dest[8].([]byte); ok {
		op.Payload = append([]byte(nil), b...)
	} else if dest[8] != nil {
		return op, fmt.Errorf("unexpected column type %T", dest[8])
	}
	return op, nil
}

func columnInt64(v driver.Value) (int64, error) {
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected column type %T", v)
	}
	return n, nil
}

func columnNullString(v driver.Value) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, err := columnString(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func columnNullInt64(v driver.Value) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	n, err := columnInt64(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
