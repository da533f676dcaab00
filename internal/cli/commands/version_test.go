package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"ttcnlint v0.1.0", "TTCN-3"}},
		{name: "custom version", version: "1.2.3", wantOut: []string{"ttcnlint v1.2.3"}},
		{name: "dev version", version: "dev", wantOut: []string{"ttcnlint vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.wantOut {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand("test")

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitClean, ExitCode(nil))
	assert.Equal(t, ExitFindings, ExitCode(&ExitCodeError{Code: ExitFindings}))
	assert.Equal(t, ExitError, ExitCode(assert.AnError))
	assert.Equal(t, "exit status 1", (&ExitCodeError{Code: ExitFindings}).Error())
	assert.ErrorIs(t, &ExitCodeError{Code: ExitError, Err: assert.AnError}, assert.AnError)
}
