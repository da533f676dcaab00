package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/internal/cli/config"
	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
	"github.com/leapstack-labs/ttcnlint/internal/testutil"
	"github.com/leapstack-labs/ttcnlint/pkg/program"
	"github.com/leapstack-labs/ttcnlint/pkg/program/programtest"
	"github.com/leapstack-labs/ttcnlint/pkg/snapshot"
)

// lockedBuffer is a bytes.Buffer safe for concurrent use.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type result struct {
	out    string
	errOut string
	err    error
}

func testConfig() *config.Config {
	return &config.Config{OutputFormat: config.DefaultOutput, Jobs: 2}
}

// runCommand executes cmd the way the root command would, with cfg in
// the context and output captured.
func runCommand(t *testing.T, cfg *config.Config, mode output.Mode, cmd *cobra.Command, args ...string) result {
	t.Helper()
	var out, errOut lockedBuffer
	r := output.NewRendererWithTTY(&out, &errOut, false, mode)
	ctx := WithRuntime(context.Background(), cfg, testutil.NewTestLogger(t), r)

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(ctx)
	return result{out: out.String(), errOut: errOut.String(), err: err}
}

// library returns module A, which imports B without using it, and B.
func library() (a, b *program.SourceFile) {
	bb := programtest.New()
	b = bb.File("b.ttcn", bb.Module("B", bb.Function("bfun", nil)))

	ab := programtest.New()
	a = ab.File("a.ttcn", ab.Module("A",
		ab.Import("B"),
		ab.Function("f", nil),
	))
	return a, b
}

// writeSnapshot resolves files as one program and stores it in dir.
func writeSnapshot(t *testing.T, dir, name string, files ...*program.SourceFile) string {
	t.Helper()
	snap, err := snapshot.Capture(programtest.Program(files...))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, snapshot.WriteFile(path, snap))
	return path
}
