package treecrdt

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"io"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Driver-level statement helpers. The session connection is a raw
// driver.Conn (database/sql never sees it inside a user function), so
// queries here speak driver.Value directly.

func execStmt(conn *sqlite3.SQLiteConn, query string, args ...driver.Value) (int64, error) {
	res, err := conn.Exec(query, args)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// queryInt64 runs a single-row, single-column query. A NULL result
// reads as 0.
func queryInt64(conn *sqlite3.SQLiteConn, query string, args ...driver.Value) (int64, error) {
	rows, err := conn.Query(query, args)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	dest := make([]driver.Value, len(rows.Columns()))
	if err := rows.Next(dest); err != nil {
		return 0, err
	}
	switch v := dest[0].(type) {
	case int64:
		return v, nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected column type %T", v)
	}
}

// queryStringRow runs a single-row, single-column query and reports
// whether a row existed at all. NULL reads as the empty string.
func queryStringRow(conn *sqlite3.SQLiteConn, query string, args ...driver.Value) (string, bool, error) {
	rows, err := conn.Query(query, args)
	if err != nil {
		return "", false, err
	}
	defer rows.Close()

	dest := make([]driver.Value, len(rows.Columns()))
	if err := rows.Next(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, err
	}
	s, err := columnString(dest[0])
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// queryString is queryStringRow without the row-presence bit: zero rows
// and NULL both read as the empty string.
func queryString(conn *sqlite3.SQLiteConn, query string, args ...driver.Value) (string, error) {
	s, _, err := queryStringRow(conn, query, args...)
	return s, err
}

func columnString(v driver.Value) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unexpected column type %T", v)
	}
}
