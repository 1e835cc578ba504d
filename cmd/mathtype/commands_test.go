package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mathtype/internal/mapping"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{"fixed": {";a": "α", ";pi": "π"}, "custom": {";;스타": "★"}}`

type cliEnv struct {
	dir     string
	mapping string
	env     map[string]string
}

func newCLIEnv(t *testing.T, doc string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, mapping.DefaultFileName)
	if doc != "" {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	}
	return &cliEnv{dir: dir, mapping: path, env: map[string]string{}}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(k string) string { return e.env[k] })

	base := []string{
		"--config", filepath.Join(e.dir, "missing.yaml"),
		"--mapping", e.mapping,
		"--log-level", "error",
	}
	cmd.SetArgs(append(base, args...))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	return out.String(), err
}

func TestConvertArgs(t *testing.T) {
	e := newCLIEnv(t, fixture)

	out, err := e.run(t, "", "convert", ";a", "+", ";1/2")
	require.NoError(t, err)
	assert.Equal(t, "α + \\frac{1}{2}\n", out)
}

func TestConvertStdin(t *testing.T) {
	e := newCLIEnv(t, fixture)

	out, err := e.run(t, ";pi r^2\n;;스타", "convert")
	require.NoError(t, err)
	assert.Equal(t, "π r^2\n★", out)
}

func TestConvertFlagsSelectVariant(t *testing.T) {
	e := newCLIEnv(t, fixture)

	out, err := e.run(t, "", "--no-dynamic", "convert", ";1/2")
	require.NoError(t, err)
	assert.Equal(t, ";1/2\n", out)

	out, err = e.run(t, "", "--trailing-space", "convert", ";a")
	require.NoError(t, err)
	assert.Equal(t, "α \n", out)
}

func TestConvertCreatesMissingDocument(t *testing.T) {
	e := newCLIEnv(t, "")

	out, err := e.run(t, "", "convert", ";a")
	require.NoError(t, err)
	assert.Equal(t, ";a\n", out)
	assert.FileExists(t, e.mapping)
}

func TestListTiers(t *testing.T) {
	e := newCLIEnv(t, fixture)

	out, err := e.run(t, "", "list", "--tier", "custom")
	require.NoError(t, err)
	assert.Contains(t, out, ";;스타")
	assert.NotContains(t, out, ";pi")

	out, err = e.run(t, "", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, ";a\tα", lines[0])
	assert.Equal(t, ";;스타\t★", lines[2])

	_, err = e.run(t, "", "list", "--tier", "bogus")
	assert.Error(t, err)
}

func TestAddAndRemovePersist(t *testing.T) {
	e := newCLIEnv(t, fixture)

	_, err := e.run(t, "", "add", ";b", "β")
	require.NoError(t, err)

	table, err := mapping.Load(e.mapping)
	require.NoError(t, err)
	v, ok := table.Custom.Get(";b")
	require.True(t, ok)
	assert.Equal(t, "β", v)

	out, err := e.run(t, "", "remove", ";b")
	require.NoError(t, err)
	assert.Contains(t, out, "removed")

	out, err = e.run(t, "", "remove", ";a")
	require.NoError(t, err)
	assert.Contains(t, out, "not a custom mapping")

	table, err = mapping.Load(e.mapping)
	require.NoError(t, err)
	_, ok = table.Fixed.Get(";a")
	assert.True(t, ok)
}

func TestAddRejectsEmptyShortcut(t *testing.T) {
	e := newCLIEnv(t, fixture)

	_, err := e.run(t, "", "add", "", "β")
	assert.Error(t, err)
}

func TestImportReplacesDocument(t *testing.T) {
	e := newCLIEnv(t, fixture)
	src := filepath.Join(e.dir, "other.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"fixed": {";x": "ξ"}, "custom": {}}`), 0o644))

	_, err := e.run(t, "", "import", src)
	require.NoError(t, err)

	out, err := e.run(t, "", "convert", ";x ;a")
	require.NoError(t, err)
	assert.Equal(t, "ξ ;a\n", out)
}

func TestImportRejectsMalformedFile(t *testing.T) {
	e := newCLIEnv(t, fixture)
	src := filepath.Join(e.dir, "broken.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"fixed": [`), 0o644))

	_, err := e.run(t, "", "import", src)
	require.Error(t, err)
	assert.ErrorIs(t, err, mapping.ErrMalformedMapping)

	out, err := e.run(t, "", "convert", ";pi")
	require.NoError(t, err)
	assert.Equal(t, "π\n", out)
}

func TestImportReplacesCorruptDocument(t *testing.T) {
	e := newCLIEnv(t, `{"fixed": {";a": `)
	src := filepath.Join(e.dir, "good.json")
	require.NoError(t, os.WriteFile(src, []byte(fixture), 0o644))

	_, err := e.run(t, "", "convert", ";a")
	require.ErrorIs(t, err, mapping.ErrMalformedMapping)

	out, err := e.run(t, "", "import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "imported")

	out, err = e.run(t, "", "convert", ";a")
	require.NoError(t, err)
	assert.Equal(t, "α\n", out)
}

func TestEnvironmentSelectsMapping(t *testing.T) {
	e := newCLIEnv(t, fixture)
	other := filepath.Join(e.dir, "env.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"fixed": {";a": "A"}}`), 0o644))

	cmd := newRootCmd(func(k string) string {
		if k == "MATHTYPE_MAPPING" {
			return other
		}
		return ""
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(e.dir, "missing.yaml"), "--log-level", "error", "convert", ";a"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "A\n", out.String())
}
