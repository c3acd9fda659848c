package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/logging"
)

// FormatVersion is the version written into the state file.
const FormatVersion = 1

// fileFormat is the on-disk representation of State.
type fileFormat struct {
	Version int      `json:"version"`
	Entries []Record `json:"entries"`
	Current *int     `json:"current"`
}

// Store reads and writes State as a single JSON file.
//
// There is no locking: two processes saving at the same time race, and the
// last rename wins.
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted State. When the file does not exist yet, an
// empty State is saved and returned.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("No history at %s, creating it", s.path)
		st := New()
		if err := s.Save(st); err != nil {
			return State{}, err
		}
		return st, nil
	}
	if err != nil {
		return State{}, apperr.Filesystem("read history", err)
	}

	st, err := decode(data)
	if err != nil {
		return State{}, apperr.Parse("decode history "+s.path, err)
	}

	s.logger.Debug("Loaded %d history entries from %s", st.Len(), s.path)
	return st, nil
}

// Save replaces the state file. The new content is written to a temporary
// file in the same directory and renamed over the old one, so readers see
// either the previous or the new file.
func (s *Store) Save(st State) error {
	data, err := encode(st)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Filesystem("create history dir", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperr.Filesystem("create temp history", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperr.Filesystem("write history", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperr.Filesystem("sync history", err)
	}
	if err := tmp.Close(); err != nil {
		return apperr.Filesystem("close history", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperr.Filesystem("replace history", err)
	}

	s.logger.Debug("Saved %d history entries to %s", st.Len(), s.path)
	return nil
}

func encode(st State) ([]byte, error) {
	f := fileFormat{
		Version: FormatVersion,
		Entries: st.Entries,
	}
	if f.Entries == nil {
		f.Entries = []Record{}
	}
	if st.valid() {
		cur := st.Current
		f.Current = &cur
	}
	return json.MarshalIndent(f, "", "  ")
}

func decode(data []byte) (State, error) {
	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return State{}, err
	}
	if f.Version > FormatVersion {
		return State{}, fmt.Errorf("unsupported history version %d", f.Version)
	}

	st := State{Entries: f.Entries, Current: NoCurrent}
	if st.Entries == nil {
		st.Entries = []Record{}
	}
	if len(st.Entries) == 0 {
		return st, nil
	}

	// Keep the invariant even if the file was edited by hand.
	switch {
	case f.Current == nil || *f.Current >= len(st.Entries):
		st.Current = len(st.Entries) - 1
	case *f.Current < 0:
		st.Current = 0
	default:
		st.Current = *f.Current
	}
	return st, nil
}
