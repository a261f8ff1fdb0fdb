// Package state keeps a JSON record of every AppImage this tool installed,
// so the list and uninstall commands know which files belong to which app.
package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"errors"        // Distinguishing a missing state file from other read errors
	"fmt"           // Error wrapping
	"io/fs"         // fs.ErrNotExist
	"os"            // Reading and writing the state file
	"path/filepath" // Parent directory and base names
	"sort"          // Stable listing order
	"strings"       // Matching launcher entry names
	"time"          // Install timestamps

	"appimage-installer/internal/logger" // Debug output of the written state
)

// Record describes one installed AppImage and the files placed for it.
type Record struct {
	Name        string    `json:"name"`           // Bundle file name, e.g. App-1.0.AppImage
	AppImage    string    `json:"appimage"`       // Installed bundle path
	DesktopFile string    `json:"desktop_file"`   // Installed launcher entry
	Icon        string    `json:"icon,omitempty"` // Installed icon, empty when the bundle had none
	Source      string    `json:"source"`         // Path the bundle was installed from
	InstalledAt time.Time `json:"installed_at"`   // When the install finished, in UTC
}

// Files lists the artifacts of the record, skipping empty ones.
// The order matches the uninstall desktop action: bundle, icon, entry.
func (r Record) Files() []string {
	var files []string
	for _, f := range []string{r.AppImage, r.Icon, r.DesktopFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// State holds the install records keyed by bundle file name.
type State struct {
	Apps map[string]Record `json:"apps"` // Map from bundle file name to its Record
}

// Load reads the state file at path.
// A missing file yields an empty state; any other read or parse failure is
// returned so a corrupt file is never silently overwritten.
func Load(path string) (*State, error) {
	// Read the entire state JSON file into memory
	file, err := os.ReadFile(path)
	if err != nil {
		// Nothing installed yet
		if errors.Is(err, fs.ErrNotExist) {
			return &State{Apps: make(map[string]Record)}, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	// Parse JSON data into a State struct
	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	// JSON may carry null for the map
	if st.Apps == nil {
		st.Apps = make(map[string]Record)
	}
	return &st, nil
}

// Save writes the state as indented JSON, creating parent directories.
func (s *State) Save(path string) error {
	// Marshal the State struct into indented JSON bytes
	file, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(file))

	// The state directory lives under ~/.local/share and may not exist yet
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	// Write the JSON bytes with mode 0644 (read/write owner, read others)
	if err := os.WriteFile(path, file, 0644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// Put adds or replaces the record for r.Name.
func (s *State) Put(r Record) {
	s.Apps[r.Name] = r
}

// Find looks a record up by bundle file name, launcher entry file name
// (with or without .desktop) or installed bundle path.
func (s *State) Find(name string) (Record, bool) {
	// Exact key match first
	if r, ok := s.Apps[name]; ok {
		return r, true
	}
	// Then by launcher entry name or installed path
	for _, r := range s.Apps {
		desktop := filepath.Base(r.DesktopFile)
		if desktop == name || strings.TrimSuffix(desktop, ".desktop") == name || r.AppImage == name {
			return r, true
		}
	}
	return Record{}, false
}

// Delete forgets the record stored under name.
func (s *State) Delete(name string) {
	delete(s.Apps, name)
}

// Sorted returns the records ordered by name.
func (s *State) Sorted() []Record {
	records := make([]Record, 0, len(s.Apps))
	for _, r := range s.Apps {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
