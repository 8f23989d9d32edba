// Package treecrdt is the extension module the bridge publishes: the
// per-session entry point and the SQL surface it installs.
//
// Init is the single entry point. For every new session the host
// invokes it with the live connection and, in dynamic-load builds, a
// capability table. It creates the op-log schema if missing and
// registers the treecrdt_* function family:
//
//	treecrdt_version()                     extension version
//	treecrdt_site_id()                     replica id of this process
//	treecrdt_doc_id()                      document id ('' when unset)
//	treecrdt_set_doc_id(id)                claim the document id (set-once)
//	treecrdt_append_op(replica, counter,
//	    lamport, kind, parent, node,
//	    new_parent, position, payload)     append one op to the log
//	treecrdt_append_ops(json)              append a JSON array of ops
//	treecrdt_ops_since(lamport)            ops after a lamport clock, as JSON
//	treecrdt_head_lamport()                max lamport in the log
//	treecrdt_replica_max_counter(replica)  max counter for a replica
//	treecrdt_op_count()                    number of logged ops
//
// The document id is set-once. Appends are refused until it is set and
// are idempotent on (replica, counter), so treecrdt_ops_since output
// can be replayed into treecrdt_append_ops on another database without
// double-applying. The merge machinery that consumes the op log lives
// elsewhere; this package only installs the capability surface.
//
// Init must be safe for concurrent invocation with distinct
// connections. All state here is per-call except the version constant
// and the process site id, which is computed once and immutable after.
package treecrdt
