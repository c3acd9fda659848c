package history

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/litescript/apod-desktop/internal/apperr"
	"github.com/litescript/apod-desktop/internal/logging"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "backgrounds", "history.json"), logging.Discard())
}

func TestLoad_FreshCreatesFile(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !st.Empty() {
		t.Errorf("fresh state has %d entries", st.Len())
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("state file not created: %v", err)
	}

	// A second load reads the file that was just written.
	again, err := store.Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if !again.Equal(st) {
		t.Error("second Load differs from first")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	moved, _, _ := abc().MovePrevious()

	tests := []struct {
		name  string
		state State
	}{
		{"empty", New()},
		{"zero value", State{}},
		{"single", New().RecordNew("u", "/f.png", "t")},
		{"at end", abc()},
		{"moved back", moved},
		{"unicode title", New().RecordNew("u", "/f.png", "Orion — M42 in Étendue")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			if err := store.Save(tc.state); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !got.Equal(tc.state) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tc.state)
			}
		})
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 3; i++ {
		if err := store.Save(abc()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "history.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v, want only history.json", names)
	}
}

func TestSave_EmptyOmitsCurrent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(New()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"current": null`) {
		t.Errorf("expected null current in %s", data)
	}
}

func TestLoad_RepairsCurrent(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    int
	}{
		{"missing", "null", 1},
		{"too large", "7", 1},
		{"negative", "-3", 0},
		{"valid", "0", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			body := `{"version":1,"entries":[{"url":"a","file":"fa","title":"A"},{"url":"b","file":"fb","title":"B"}],"current":` + tc.current + `}`
			writeFile(t, store.Path(), body)

			st, err := store.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if st.Current != tc.want {
				t.Errorf("Current = %d, want %d", st.Current, tc.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"garbage", "not json"},
		{"future version", `{"version":99,"entries":[],"current":null}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			writeFile(t, store.Path(), tc.body)

			_, err := store.Load()
			if !errors.Is(err, apperr.ErrParse) {
				t.Errorf("err = %v, want parse error", err)
			}
		})
	}
}

func TestSave_UnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeFile(t, blocker, "x")

	store := NewStore(filepath.Join(blocker, "history.json"), nil)
	err := store.Save(New())
	if !errors.Is(err, apperr.ErrFilesystem) {
		t.Errorf("err = %v, want filesystem error", err)
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
