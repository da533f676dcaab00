package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ttcnlint/internal/cli/output"
	"github.com/leapstack-labs/ttcnlint/pkg/core"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    output.Mode
		wantErr bool
	}{
		{in: "", want: output.ModeAuto},
		{in: "auto", want: output.ModeAuto},
		{in: "text", want: output.ModeText},
		{in: "json", want: output.ModeJSON},
		{in: "markdown", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := output.ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_PlainWhenPiped(t *testing.T) {
	var out, errOut bytes.Buffer
	r := output.NewRendererWithTTY(&out, &errOut, false, output.ModeAuto)

	assert.Equal(t, output.ModeText, r.EffectiveMode())
	assert.False(t, r.IsTTY())

	r.Success("no problems found")
	r.Error("boom")
	r.Println(r.Styles().Severity(core.SeverityWarning).Render("warning"))

	assert.Equal(t, "no problems found\nwarning\n", out.String())
	assert.Equal(t, "boom\n", errOut.String())
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestRenderer_JSON(t *testing.T) {
	var out bytes.Buffer
	r := output.NewRendererWithTTY(&out, &out, false, output.ModeJSON)
	assert.Equal(t, output.ModeJSON, r.EffectiveMode())

	require.NoError(t, r.JSON(output.LintOutput{Summary: output.LintSummary{Files: 2, Problems: 1}}))

	var got output.LintOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Summary.Files)
	assert.Equal(t, 1, got.Summary.Problems)
}

func TestRenderer_Table(t *testing.T) {
	var out bytes.Buffer
	r := output.NewRendererWithTTY(&out, &out, false, output.ModeText)

	r.Table([]string{"Name", "Fixable"}, [][]string{{"no-empty", "no"}, {"prefer-const", "no"}})

	text := out.String()
	assert.Contains(t, text, "NAME")
	assert.Contains(t, text, "no-empty")
	assert.Contains(t, text, "prefer-const")
}
