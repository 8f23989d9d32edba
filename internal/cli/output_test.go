package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treecrdt-sqlite/internal/hostcheck"
)

// fixedReport is a deterministic report for rendering tests. Live
// reports contain a per-process site id, so golden tests use this
// instead of a real session.
func fixedReport() hostcheck.Report {
	return hostcheck.Report{
		Driver: "sqlite3_treecrdt",
		Capabilities: []hostcheck.Capability{
			{Name: "treecrdt_version", OK: true, Detail: "0.1.0"},
			{Name: "treecrdt_site_id", OK: true, Detail: "0f0e6e2a-4f63-4aa2-8c3e-2f6f8b1f9d2c"},
			{Name: "treecrdt_doc_id", OK: true, Detail: "doc-1"},
			{Name: "treecrdt_head_lamport", OK: true, Detail: "9"},
			{Name: "treecrdt_replica_max_counter", OK: false, Error: "no such function: treecrdt_replica_max_counter"},
		},
	}
}

func TestRenderReport_TextGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, "text", fixedReport()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "check_report", buf.Bytes())
}

func TestRenderReport_JSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, "json", fixedReport()))

	var decoded hostcheck.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, fixedReport(), decoded)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
