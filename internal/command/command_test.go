// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/config"
	"github.com/tfctl/rowdiff/internal/meta"
)

const (
	originalExport = "id;name;qty\n1;Bolt;5\n2;Nut;9\n"
	changedExport  = "id;name;qty\n1;Bolt;7\n3;Washer;1\n"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

// runApp runs the app against args with stdin fed from stdin. The process
// is treated as non-interactive.
func runApp(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()

	t.Setenv("ROWDIFF_CACHE", "0")
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })

	argv := append([]string{"rowdiff"}, args...)
	app := newApp(meta.Meta{Args: argv, StartingDir: t.TempDir()})

	var out, errOut bytes.Buffer
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut

	err := app.Run(context.Background(), argv)
	return runResult{stdout: ansi.Strip(out.String()), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return -1
}

func TestOutputValidator(t *testing.T) {
	for _, v := range []string{"text", "json", "raw", "yaml"} {
		assert.NoError(t, OutputValidator(v), v)
	}
	assert.ErrorContains(t, OutputValidator("xml"), "must be one of")
}

func TestEncodingValidator(t *testing.T) {
	assert.NoError(t, EncodingValidator("latin1"))
	assert.NoError(t, EncodingValidator("UTF8"))
	assert.NoError(t, EncodingValidator("cp1252"))
	assert.Error(t, EncodingValidator("ebcdic"))
}

func TestDelimiterValidator(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{";", false},
		{",", false},
		{"\t", false},
		{"§", false},
		{"", true},
		{";;", true},
		{"\n", true},
		{"\r", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := FlagValidators(tt.value, DelimiterValidator)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNonNegativeValidator(t *testing.T) {
	assert.NoError(t, NonNegativeValidator(0))
	assert.NoError(t, NonNegativeValidator(3))
	assert.Error(t, NonNegativeValidator(-1))
}

func TestDelimiterRune(t *testing.T) {
	assert.Equal(t, ';', delimiterRune(";"))
	assert.Equal(t, '§', delimiterRune("§"))
	assert.Equal(t, rune(0), delimiterRune(""))
}

func TestBoolFlagNames(t *testing.T) {
	names := BoolFlagNames()

	for _, n := range []string{"--strict", "--exit-code", "--explain", "--pick", "--schema", "--titles", "-t", "--color", "-c"} {
		assert.True(t, names[n], n)
	}
	for _, n := range []string{"--output", "-o", "--id", "--header-skip", "-k"} {
		assert.False(t, names[n], n)
	}
}

func TestNewAppCommands(t *testing.T) {
	app := newApp(meta.Meta{})

	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)

		for i := 1; i < len(c.Flags); i++ {
			assert.LessOrEqual(t, c.Flags[i-1].Names()[0], c.Flags[i].Names()[0], "%s flags sorted", c.Name)
		}
	}
	assert.Equal(t, []string{"compare", "headers", "completion"}, names)
}

func TestCompare_JSON(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	changed := writeFile(t, "changed.txt", changedExport)

	res := runApp(t, "", "compare", "--output", "json", "--name", "name", orig, changed)
	require.NoError(t, res.err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 3)

	assert.Equal(t, "1", rows[0]["id"])
	assert.Equal(t, "Bolt", rows[0]["name"])
	assert.Equal(t, "changed", rows[0]["status"])
	assert.Equal(t, "qty", rows[0]["field"])
	assert.Equal(t, "Increases qty from 5 to 7.", rows[0]["change"])
	assert.Equal(t, "increase", rows[0]["direction"])
	assert.Equal(t, 2.0, rows[0]["delta"])

	assert.Equal(t, "2", rows[1]["id"])
	assert.Equal(t, "removed", rows[1]["status"])
	assert.Equal(t, "This line was removed.", rows[1]["change"])

	assert.Equal(t, "3", rows[2]["id"])
	assert.Equal(t, "Washer", rows[2]["name"])
	assert.Equal(t, "added", rows[2]["status"])
}

func TestCompare_FilterWhereSort(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	changed := writeFile(t, "changed.txt", changedExport)

	res := runApp(t, "", "compare", "-o", "json", "--filter", "status^a", orig, changed)
	require.NoError(t, res.err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0]["id"])

	res = runApp(t, "", "compare", "-o", "json", "--where", `status != "changed"`, "--sort", "id", orig, changed)
	require.NoError(t, res.err)
	rows = nil
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[0]["id"])
	assert.Equal(t, "3", rows[1]["id"])
}

func TestCompare_Text(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	changed := writeFile(t, "changed.txt", changedExport)

	res := runApp(t, "", "compare", "--titles", orig, changed)
	require.NoError(t, res.err)

	assert.Contains(t, res.stdout, "orig.txt -> changed.txt")
	assert.Contains(t, res.stdout, "Increases qty from 5 to 7.")
	assert.Contains(t, res.stdout, "This line was added.")
	assert.Contains(t, res.stdout, "1 changed, 1 added, 1 removed")
	// Hidden by default.
	assert.NotContains(t, res.stdout, "increase ")
}

func TestCompare_Identical(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	same := writeFile(t, "same.txt", originalExport)

	res := runApp(t, "", "compare", "--exit-code", orig, same)
	require.NoError(t, res.err)
	assert.Equal(t, "There are no differences in these files.\n", res.stdout)
}

func TestCompare_ExitCodeOnDifferences(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	changed := writeFile(t, "changed.txt", changedExport)

	res := runApp(t, "", "compare", "-o", "json", orig, changed)
	assert.NoError(t, res.err)

	res = runApp(t, "", "compare", "-o", "json", "--exit-code", orig, changed)
	assert.Equal(t, ExitDifferent, exitCode(res.err))
}

func TestCompare_Mismatch(t *testing.T) {
	orig := writeFile(t, "orig.txt", "id;qty\n1;5\n")
	changed := writeFile(t, "changed.txt", "id;qty;unit\n1;5;pcs\n")

	res := runApp(t, "", "compare", "--explain", orig, changed)
	assert.Equal(t, ExitBlocked, exitCode(res.err))
	assert.True(t, strings.HasPrefix(res.stdout, "Files do not match.\n"))
	assert.Contains(t, res.stdout, "unit")

	res = runApp(t, "", "compare", "-o", "json", orig, changed)
	assert.Equal(t, ExitBlocked, exitCode(res.err))
	assert.Equal(t, "[]\n", res.stdout)
	assert.Contains(t, res.stderr, "Files do not match.")
}

func TestCompare_StrictDuplicate(t *testing.T) {
	orig := writeFile(t, "orig.txt", "id;qty\n1;5\n1;6\n")
	changed := writeFile(t, "changed.txt", "id;qty\n1;5\n")

	res := runApp(t, "", "compare", "--strict", orig, changed)
	assert.Equal(t, ExitBlocked, exitCode(res.err))
	assert.Contains(t, res.stdout, `Duplicate id "1" in original file.`)

	res = runApp(t, "", "compare", orig, changed)
	assert.NoError(t, res.err)
}

func TestCompare_Raw(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)
	changed := writeFile(t, "changed.txt", changedExport)

	res := runApp(t, "", "compare", "-o", "raw", orig, changed)
	require.NoError(t, res.err)

	var doc struct {
		Status   string           `json:"status"`
		IDColumn string           `json:"idColumn"`
		Records  []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "different", doc.Status)
	assert.Equal(t, "id", doc.IDColumn)
	assert.Len(t, doc.Records, 3)
}

func TestCompare_StdinAndParseFlags(t *testing.T) {
	orig := writeFile(t, "orig.txt", "EXPORT\nid,qty\n1,5\n")

	res := runApp(t, "EXPORT\nid,qty\n1,6\n", "compare", "-o", "json", "-k", "1", "-d", ",", orig)
	require.NoError(t, res.err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Increases qty from 5 to 6.", rows[0]["change"])
}

func TestCompare_Latin1(t *testing.T) {
	orig := writeFile(t, "orig.txt", "id;name\n1;Caf\xe9\n")
	changed := writeFile(t, "changed.txt", "id;name\n1;Cafe\n")

	res := runApp(t, "", "compare", "-o", "json", orig, changed)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `Changes name from \"Café\" to \"Cafe\".`)
}

func TestCompare_OperandErrors(t *testing.T) {
	orig := writeFile(t, "orig.txt", originalExport)

	res := runApp(t, "", "compare")
	assert.ErrorContains(t, res.err, "expected ORIGINAL and CHANGED")

	res = runApp(t, "", "compare", orig, orig, orig)
	assert.ErrorContains(t, res.err, "got 3 operands")

	res = runApp(t, "", "compare", "--pick", orig)
	assert.ErrorContains(t, res.err, "--pick needs a terminal")

	res = runApp(t, "", "compare", orig, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, res.err)

	res = runApp(t, "", "compare", "-", "-")
	assert.Error(t, res.err)

	res = runApp(t, "", "compare", "--header-skip", "-1", orig, orig)
	assert.Error(t, res.err)

	res = runApp(t, "", "compare", "--where", "status ==", orig, orig)
	assert.Error(t, res.err)
}

func TestCompare_Schema(t *testing.T) {
	res := runApp(t, "", "compare", "--schema")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "direction")
	assert.Contains(t, res.stdout, "delta")
}

func TestHeaders(t *testing.T) {
	f := writeFile(t, "export.txt", "id;name;qty\n1;Bolt;\n2;;9\n3;Washer;1\n")

	res := runApp(t, "", "headers", "-o", "json", f)
	require.NoError(t, res.err)

	var cols []map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "name", cols[1]["column"])
	assert.Equal(t, 1.0, cols[1]["index"])
	assert.Equal(t, 2.0, cols[1]["populated"])
	assert.Equal(t, 1.0, cols[1]["blank"])

	res = runApp(t, "id;qty\n1;5\n", "headers", "--titles")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "stdin")
	assert.Contains(t, res.stdout, "1 rows, 1 skipped lines")
}

func TestCompletion(t *testing.T) {
	res := runApp(t, "", "completion", "bash")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "complete -F _rowdiff rowdiff")

	res = runApp(t, "", "completion", "zsh")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "#compdef rowdiff")

	t.Setenv("SHELL", "/bin/fish")
	res = runApp(t, "", "completion")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "usage: rowdiff completion")
}

func TestNameSpacedValueChainFlagFromConfigFile(t *testing.T) {
	cfg := writeFile(t, "rowdiff.yaml", "compare:\n  id: Tag\n  header_skip: 2\nname: Description\n")

	var id, name *cli.StringFlag
	for _, f := range NewCompareFlags("compare", cfg) {
		if sf, ok := f.(*cli.StringFlag); ok {
			switch sf.Name {
			case "id":
				id = sf
			case "name":
				name = sf
			}
		}
	}
	require.NotNil(t, id)
	require.NotNil(t, name)

	v, ok := id.Sources.Lookup()
	require.True(t, ok)
	assert.Equal(t, "Tag", v)

	v, ok = name.Sources.Lookup()
	require.True(t, ok)
	assert.Equal(t, "Description", v)
}
