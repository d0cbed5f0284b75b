// Package posters tracks which poster images exist on disk and serves
// resized copies of them.
package posters

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Manifest is the set of poster files in a directory. It satisfies
// catalog.PosterIndex.
type Manifest struct {
	dir string

	mu    sync.RWMutex
	files map[string]bool
	// onChange is called after every refresh that changed the file set.
	onChange func()
}

// NewManifest creates a manifest for dir and loads it once.
func NewManifest(dir string) *Manifest {
	m := &Manifest{dir: dir, files: make(map[string]bool)}
	if err := m.Refresh(); err != nil {
		log.Warnf("Poster directory %s could not be read: %v", dir, err)
	}
	return m
}

// Dir returns the directory the manifest describes.
func (m *Manifest) Dir() string { return m.dir }

// OnChange registers fn to run whenever the set of posters changes.
func (m *Manifest) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Has reports whether file is present.
func (m *Manifest) Has(file string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files[file]
}

// Len returns the number of known posters.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// Path returns the on-disk path of file. It refuses names that would
// escape the poster directory.
func (m *Manifest) Path(file string) (string, bool) {
	if file == "" || file != filepath.Base(file) || strings.HasPrefix(file, ".") {
		return "", false
	}
	return filepath.Join(m.dir, file), true
}

// Refresh rescans the directory.
func (m *Manifest) Refresh() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return err
	}
	files := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files[e.Name()] = true
	}

	m.mu.Lock()
	changed := len(files) != len(m.files)
	if !changed {
		for f := range files {
			if !m.files[f] {
				changed = true
				break
			}
		}
	}
	m.files = files
	onChange := m.onChange
	m.mu.Unlock()

	if changed && onChange != nil {
		onChange()
	}
	return nil
}
