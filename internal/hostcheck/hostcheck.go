// Package hostcheck verifies that a live session carries the treecrdt
// capability surface. It is the observation side of the bridge: the
// registration itself has no error channel, so the way to find out
// whether it worked is to open a session and probe it.
package hostcheck

import (
	"context"
	"database/sql"
)

// Capability is the probe result for one installed SQL function.
type Capability struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Report is the outcome of probing one session.
type Report struct {
	Driver       string       `json:"driver"`
	Capabilities []Capability `json:"capabilities"`
}

// OK reports whether every probed capability answered.
func (r Report) OK() bool {
	for _, c := range r.Capabilities {
		if !c.OK {
			return false
		}
	}
	return true
}

type probe struct {
	name  string
	query string
}

// Read-only probes only: a check must not mutate the op log, so the
// mutating functions (treecrdt_set_doc_id, treecrdt_append_op,
// treecrdt_append_ops) are verified indirectly by the package tests,
// not probed here.
var probes = []probe{
	{"treecrdt_version", "SELECT treecrdt_version()"},
	{"treecrdt_site_id", "SELECT treecrdt_site_id()"},
	{"treecrdt_doc_id", "SELECT treecrdt_doc_id()"},
	{"treecrdt_ops_since", "SELECT treecrdt_ops_since(0)"},
	{"treecrdt_head_lamport", "SELECT treecrdt_head_lamport()"},
	{"treecrdt_replica_max_counter", "SELECT treecrdt_replica_max_counter('hostcheck')"},
	{"treecrdt_op_count", "SELECT treecrdt_op_count()"},
}

// Names lists the capabilities Run probes, in probe order.
func Names() []string {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.name
	}
	return names
}

// Run probes each capability on the given database. Probe failures are
// recorded in the report, not returned: a session missing the extension
// is a finding, not an execution error.
func Run(ctx context.Context, db *sql.DB, driverName string) Report {
	report := Report{Driver: driverName}
	for _, p := range probes {
		result := Capability{Name: p.name}
		var detail string
		if err := db.QueryRowContext(ctx, p.query).Scan(&detail); err != nil {
			result.Error = err.Error()
		} else {
			result.OK = true
			result.Detail = detail
		}
		report.Capabilities = append(report.Capabilities, result)
	}
	return report
}
