package mapping

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, doc string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestLoadMissingDocumentCreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Fixed.Len())
	assert.Equal(t, 0, table.Custom.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"fixed\": {},\n    \"custom\": {}\n}", string(data))
}

func TestLoadMalformedDocumentFails(t *testing.T) {
	path := writeDoc(t, t.TempDir(), `{"fixed": oops}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMapping)
	assert.Contains(t, err.Error(), path)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultFileName)
	table := sampleTable()

	require.NoError(t, Save(path, table))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, table.Equal(loaded))
}

func TestStoreAddPersistsCustomEntry(t *testing.T) {
	path := writeDoc(t, t.TempDir(), `{"fixed": {";a": "α"}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, store.Add(";;스타", "★"))

	v, ok := store.Merged().Lookup(";;스타")
	require.True(t, ok)
	assert.Equal(t, "★", v)

	onDisk, err := Load(path)
	require.NoError(t, err)
	v, ok = onDisk.Custom.Get(";;스타")
	require.True(t, ok)
	assert.Equal(t, "★", v)
	assert.Equal(t, 1, onDisk.Fixed.Len())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\";;스타\": \"★\"")
}

func TestStoreRemove(t *testing.T) {
	path := writeDoc(t, t.TempDir(), `{"fixed": {";a": "α"}, "custom": {";b": "β"}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	removed, err := store.Remove(";a")
	require.NoError(t, err)
	assert.False(t, removed, "fixed keys are not removable")

	removed, err = store.Remove(";missing")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.Remove(";b")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok := store.Merged().Lookup(";b")
	assert.False(t, ok)

	onDisk, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, onDisk.Custom.Len())
	assert.Equal(t, 1, onDisk.Fixed.Len())
}

func TestStorePersistFailureKeepsMutation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := writeDoc(t, dir, `{"fixed": {}, "custom": {}}`)

	store, err := Open(path, nil)
	require.NoError(t, err)

	// Replace the directory with a plain file so every write fails.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a dir"), 0o644))

	err = store.Add(";x", "χ")
	require.Error(t, err)
	assert.True(t, store.Dirty())

	v, ok := store.Merged().Lookup(";x")
	require.True(t, ok)
	assert.Equal(t, "χ", v)

	// Restore the directory and retry.
	require.NoError(t, os.Remove(dir))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, store.Save())
	assert.False(t, store.Dirty())

	onDisk, err := Load(path)
	require.NoError(t, err)
	_, ok = onDisk.Custom.Get(";x")
	assert.True(t, ok)
}

func TestStoreShutdownFlushesDirtyTable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := writeDoc(t, dir, `{"fixed": {}, "custom": {}}`)

	store, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, nil, 0o644))
	require.Error(t, store.Add(";x", "χ"))

	require.NoError(t, os.Remove(dir))
	store.Shutdown()

	assert.False(t, store.Dirty())
	onDisk, err := Load(path)
	require.NoError(t, err)
	_, ok := onDisk.Custom.Get(";x")
	assert.True(t, ok)
}

func TestStoreImportReplacesDocumentWithoutReload(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, `{"fixed": {";a": "α"}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	imported := `{"fixed": {";q": "θ"}, "custom": {";w": "ω"}}`
	require.NoError(t, store.Import(strings.NewReader(imported)))

	assert.True(t, store.RestartRequired())
	_, ok := store.Merged().Lookup(";a")
	assert.True(t, ok, "in-memory table is not hot reloaded")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, imported, string(raw))

	assert.ErrorIs(t, store.Add(";e", "ε"), ErrRestartRequired)
	_, err = store.Remove(";a")
	assert.ErrorIs(t, err, ErrRestartRequired)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	v, ok := reopened.Merged().Lookup(";w")
	require.True(t, ok)
	assert.Equal(t, "ω", v)
}

func TestStoreImportRejectsMalformedSource(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, `{"fixed": {}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	src := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"fixed": 3}`), 0o644))

	err = store.ImportFile(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMapping)
	assert.False(t, store.RestartRequired())

	err = store.ImportFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestImportFileReplacesCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, `{"fixed": {";a": `)
	_, err := Open(path, nil)
	require.ErrorIs(t, err, ErrMalformedMapping)

	good := `{"fixed": {";a": "α"}, "custom": {}}`
	src := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(src, []byte(good), 0o644))

	require.NoError(t, ImportFile(path, src))

	store, err := Open(path, nil)
	require.NoError(t, err)
	v, ok := store.Merged().Lookup(";a")
	require.True(t, ok)
	assert.Equal(t, "α", v)
}

func TestImportFileKeepsDocumentWhenSourceIsMalformed(t *testing.T) {
	dir := t.TempDir()
	current := `{"fixed": {";a": "α"}, "custom": {}}`
	path := writeDoc(t, dir, current)

	src := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(src, []byte(`[]`), 0o644))

	err := ImportFile(path, src)
	require.ErrorIs(t, err, ErrMalformedMapping)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, current, string(raw))
}

func TestStoreSnapshotsAreCopies(t *testing.T) {
	path := writeDoc(t, t.TempDir(), `{"fixed": {";a": "α"}, "custom": {}}`)
	store, err := Open(path, nil)
	require.NoError(t, err)

	merged := store.Merged()
	merged[0].Value = "changed"
	table := store.Table()
	table.Fixed.Set(";a", "changed")

	v, _ := store.Merged().Lookup(";a")
	assert.Equal(t, "α", v)
}
