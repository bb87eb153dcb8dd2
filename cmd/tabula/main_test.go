package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/formats"
	"github.com/ajitpratap0/tabula/pkg/table"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
	"github.com/ajitpratap0/tabula/pkg/testutil"
)

const scenario = "a,b\n1,true\n2,false\n3,true\n"

// tabula runs the CLI with logging limited to errors and returns stdout.
func tabula(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--log-level", "error"}, args...)
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := tabula(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "tabula v"+version+"\n"))
}

func TestShow(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	out, err := tabula(t, "show", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\na\n[1, 2, 3]\n\nb\n[true, false, true]\n\n", out)

	out, err = tabula(t, "show", path, "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2,3],"b":[true,false,true]}`+"\n", out)

	_, err = tabula(t, "show", path, "-o", "yaml")
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))
}

func TestSchema(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", "a,b,c\n1,true,x\n2,false,1.5\n3,true,y\n")

	out, err := tabula(t, "schema", path)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Equal(t, []string{"COLUMN", "TYPE", "CANDIDATES"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"a", "integer", "integer,float"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"b", "boolean", "boolean"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"c", "string"}, strings.Fields(lines[3]))
	assert.Contains(t, out, "3 rows")

	out, err = tabula(t, "schema", path, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `{"column":"a","type":"integer","candidates":["integer","float"]}`)
	assert.Contains(t, out, `{"column":"c","type":"string","candidates":[]}`)

	out, err = tabula(t, "schema", path, "-o", "ndjson")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `{"column":"b","type":"boolean","candidates":["boolean"]}`, lines[1])
}

func TestProject(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	out, err := tabula(t, "project", path, "b", "missing", "b", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"b":[true,false,true]}`+"\n", out)
}

func TestFilter(t *testing.T) {
	path := testutil.WriteFile(t, "scores.csv", "name,score\nada,2\nlin,1\nbob,3\neve,2\n")

	out, err := tabula(t, "filter", path, "score", ">=", "2", "-o", "ndjson")
	require.NoError(t, err)
	assert.Equal(t,
		"{\"name\":\"ada\",\"score\":2}\n{\"name\":\"bob\",\"score\":3}\n{\"name\":\"eve\",\"score\":2}\n",
		out)

	out, err = tabula(t, "filter", path, "score", "GREATER_EQUAL", "2", "--sort", "score", "--desc", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":["bob","ada","eve"],"score":[3,2,2]}`+"\n", out)
}

func TestFilter_Errors(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	_, err := tabula(t, "filter", path, "a", "~", "1")
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = tabula(t, "filter", path, "missing", "=", "1")
	assert.True(t, tableerrors.IsColumnNotFound(err))

	_, err = tabula(t, "filter", path, "a", "=", "one")
	assert.True(t, tableerrors.IsCoercion(err))

	_, err = tabula(t, "filter", path, "a", "=")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	out, err := tabula(t, "sort", path, "b", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[2,1,3],"b":[false,true,true]}`+"\n", out)

	_, err = tabula(t, "sort", path, "c")
	assert.True(t, tableerrors.IsColumnNotFound(err))
}

func TestLoadErrors(t *testing.T) {
	_, err := tabula(t, "show", filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, tableerrors.IsFile(err))

	_, err = tabula(t, "show", testutil.WriteFile(t, "bad.csv", "a,b\n1,2,3\n"))
	assert.True(t, tableerrors.IsFormat(err))
}

func TestExport_File(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)
	dest := filepath.Join(t.TempDir(), "data.parquet")

	_, err := tabula(t, "export", path, "--format", "parquet", "--compression", "zstd", "-o", dest)
	require.NoError(t, err)

	f, err := os.Open(dest)
	require.NoError(t, err)
	defer f.Close()

	got, err := formats.Read(f, formats.Parquet, "copy")
	require.NoError(t, err)
	assert.Equal(t, []table.Field{{Name: "a", Type: table.Integer}, {Name: "b", Type: table.Boolean}}, got.Schema())
	assert.Equal(t, 3, got.Len())
}

func TestExport_CompressedStdout(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	out, err := tabula(t, "export", path, "--format", "ndjson", "--compression", "gzip", "--columns", "b")
	require.NoError(t, err)

	r, err := compression.NewReader(compression.Gzip, strings.NewReader(out))
	require.NoError(t, err)
	defer r.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":true}\n{\"b\":false}\n{\"b\":true}\n", buf.String())
}

func TestExport_ConfigDefaults(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)
	t.Setenv("TABULA_EXPORT_FORMAT", "ndjson")

	out, err := tabula(t, "export", path, "--columns", "a")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n", out)
}

func TestExport_UnsupportedCompressionRemovesFile(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)
	dest := filepath.Join(t.TempDir(), "data.avro")

	_, err := tabula(t, "export", path, "--format", "avro", "--compression", "zstd", "-o", dest)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))
	assert.NoFileExists(t, dest)

	_, err = tabula(t, "export", path, "--format", "xlsx")
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))
}

func TestSeparator_Layering(t *testing.T) {
	path := testutil.WriteFile(t, "data.txt", "a;b|c\n1;2|3\n")

	// Default separator is a comma, so the whole line is one column.
	out, err := tabula(t, "project", path, "a;b|c", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a;b|c":["1;2|3"]}`+"\n", out)

	t.Setenv("SEP", "|")
	cfgPath := testutil.WriteFile(t, "tabula.yaml", "loader:\n  default_separator: \"${SEP}\"\n")
	out, err = tabula(t, "--config", cfgPath, "project", path, "a;b", "c", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a;b":["1;2"],"c":[3]}`+"\n", out)

	t.Setenv("TABULA_LOADER_DEFAULT_SEPARATOR", ";")
	out, err = tabula(t, "--config", cfgPath, "project", path, "a", "b|c", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1],"b|c":["2|3"]}`+"\n", out)

	out, err = tabula(t, "--config", cfgPath, "--separator", "|", "project", path, "c", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"c":[3]}`+"\n", out)
}

func TestCSVSuffixFlag(t *testing.T) {
	path := testutil.WriteFile(t, "data.txt", "a,b\n1,2\n")

	out, err := tabula(t, "--separator", ";", "--csv-suffix", ".txt", "project", path, "b", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, `{"b":[2]}`+"\n", out)
}

func TestInvalidConfiguration(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"--log-level", "loud", "show", path}, &stdout, &stderr)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = tabula(t, "--separator", "::", "show", path)
	assert.True(t, tableerrors.IsType(err, tableerrors.ErrorTypeValidation))

	_, err = tabula(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "show", path)
	assert.True(t, tableerrors.IsFile(err))
}

func TestStats(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	out, err := tabula(t, "stats", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"source", path}, strings.Fields(strings.Split(out, "\n")[0]))
	assert.Contains(t, out, "tabula_tables_loaded_total")
	assert.Contains(t, out, "tabula_operation_duration_seconds")

	out, err = tabula(t, "--metrics=false", "stats", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "tabula_")
}

func TestTracing(t *testing.T) {
	path := testutil.WriteFile(t, "data.csv", scenario)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(),
		[]string{"--log-level", "error", "--tracing", "sort", path, "a"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"Name":"tabula.load"`)
	assert.Contains(t, stderr.String(), `"Name":"tabula.sort"`)
}
