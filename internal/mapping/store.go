package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mathtype/internal/logger"
)

const component = "MappingStore"

// DefaultFileName is the document name resolved next to the executable.
const DefaultFileName = "mapping.json"

// ErrRestartRequired is returned by mutations once a mapping file has been
// imported. The imported document only takes effect after a restart and must
// not be overwritten by the table still held in memory.
var ErrRestartRequired = errors.New("mapping file was imported; restart to apply it")

// Load reads the document at path. A missing document is a first run: an
// empty table is returned and written to path.
func Load(path string) (*Table, error) {
	table, _, err := readOrCreate(path)
	return table, err
}

// ImportFile replaces the document at dst with the one at src. Only src is
// decoded, so a dst that no longer parses can still be replaced.
func ImportFile(dst, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	_, err = importFrom(dst, f)
	return err
}

// importFrom validates the document read from r and writes it to dst,
// returning the bytes written.
func importFrom(dst string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import source: %w", err)
	}
	if _, err := Decode(data); err != nil {
		return nil, fmt.Errorf("import rejected: %w", err)
	}
	if err := writeFile(dst, data); err != nil {
		return nil, err
	}
	return data, nil
}

// Save writes the whole table to path.
func Save(path string, t *Table) error {
	_, err := save(path, t)
	return err
}

func readOrCreate(path string) (*Table, []byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		table := NewTable()
		written, err := save(path, table)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create mapping file: %w", err)
		}
		return table, written, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	table, err := Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, data, nil
}

func save(path string, t *Table) ([]byte, error) {
	data, err := Encode(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mappings: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return nil, err
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mapping directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace mapping file: %w", err)
	}
	return nil
}

// Store owns the mapping table of one editor session, its backing file and
// the merged view derived from it.
type Store struct {
	mu              sync.RWMutex
	path            string
	table           *Table
	merged          Entries
	lastWritten     []byte
	dirty           bool
	restartRequired bool
	logger          logger.Logger
}

// Open loads the store from path, creating the document on first run.
func Open(path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NoOp{}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve mapping path: %w", err)
	}

	table, data, err := readOrCreate(abs)
	if err != nil {
		return nil, err
	}

	s := &Store{
		path:        abs,
		table:       table,
		merged:      table.Merged(),
		lastWritten: data,
		logger:      log,
	}

	log.Info(component, "mappings loaded", map[string]interface{}{
		"path":   abs,
		"fixed":  table.Fixed.Len(),
		"custom": table.Custom.Len(),
	})
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// Table returns a copy of the current table.
func (s *Store) Table() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Merged returns a snapshot of the merged view.
func (s *Store) Merged() Entries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Entries, len(s.merged))
	copy(out, s.merged)
	return out
}

// Add inserts or overwrites key in the custom tier and persists the table.
// When persisting fails the in-memory change is kept, the store is marked
// dirty and the error is returned so the caller can retry with Save.
func (s *Store) Add(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartRequired {
		return ErrRestartRequired
	}

	s.table.AddCustom(key, value)
	s.merged = s.table.Merged()

	s.logger.Debug(component, "custom mapping added", map[string]interface{}{
		"key":   key,
		"value": value,
	})
	return s.persistLocked()
}

// Remove deletes key from the custom tier. Absent and fixed-only keys are a
// no-op, reported as false. The table is persisted either way.
func (s *Store) Remove(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartRequired {
		return false, ErrRestartRequired
	}

	removed := s.table.RemoveCustom(key)
	s.merged = s.table.Merged()

	s.logger.Debug(component, "custom mapping remove requested", map[string]interface{}{
		"key":     key,
		"removed": removed,
	})
	return removed, s.persistLocked()
}

// Save persists the current table. It is the retry path after a failed
// mutation.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.restartRequired {
		return ErrRestartRequired
	}
	return s.persistLocked()
}

// Dirty reports whether the last persist failed.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// RestartRequired reports whether an imported document is waiting for a
// restart.
func (s *Store) RestartRequired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.restartRequired
}

func (s *Store) persistLocked() error {
	data, err := save(s.path, s.table)
	if err != nil {
		s.dirty = true
		s.logger.Error(component, err, map[string]interface{}{"path": s.path})
		return err
	}
	s.dirty = false
	s.lastWritten = data
	return nil
}

// Import replaces the backing document with the one read from r. The source
// must decode as a mapping document. The table in memory is not reloaded.
func (s *Store) Import(r io.Reader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := importFrom(s.path, r)
	if err != nil {
		return err
	}
	s.lastWritten = data
	s.restartRequired = true

	s.logger.Info(component, "mapping file imported, restart required", map[string]interface{}{
		"path":  s.path,
		"bytes": len(data),
	})
	return nil
}

// ImportFile imports the mapping document stored at path.
func (s *Store) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return s.Import(f)
}

// Shutdown flushes a table whose last persist failed.
func (s *Store) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty || s.restartRequired {
		return
	}
	if err := s.persistLocked(); err != nil {
		s.logger.Warning(component, "unsaved mappings lost at shutdown", map[string]interface{}{
			"path": s.path,
		})
		return
	}
	s.logger.Info(component, "pending mappings saved at shutdown", nil)
}

func (s *Store) isOwnWrite(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bytes.Equal(data, s.lastWritten)
}
