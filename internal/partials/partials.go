// Package partials resolves the text referenced by a {{>name}} tag. It
// plays the role the reference engine's load_partial callback does: given a
// name and the directory the enclosing template was loaded from, find the
// partial's source text and the directory that should be searched for any
// partials *it* in turn references.
package partials

import (
	"os"
	"path/filepath"
)

// Loader resolves a partial by name. dir is the directory the template
// currently being rendered was loaded from (empty for in-memory templates);
// rootDir is the directory the top-level render call started from. Loader
// implementations that don't care about directories (StaticLoader) ignore
// both. The returned dir is threaded into the nested render call so that a
// partial loaded from a subdirectory can itself reference sibling partials
// relative to where it was found.
type Loader interface {
	Load(name, dir, rootDir string) (src string, resolvedDir string, ok bool)
}

// FileLoader resolves partials from the filesystem. A partial named NAME is
// searched for first in dir (the directory of the template that referenced
// it), then, if dir differs from rootDir, in rootDir, trying each of
// Extensions in order at each location. The zero value searches for a bare
// filename with no extension.
type FileLoader struct {
	Extensions []string
}

func (fl *FileLoader) extensions() []string {
	if len(fl.Extensions) > 0 {
		return fl.Extensions
	}
	return []string{"", ".mustache"}
}

func (fl *FileLoader) Load(name, dir, rootDir string) (string, string, bool) {
	if dir == "" {
		return "", "", false
	}

	dirs := []string{dir}
	if rootDir != "" && rootDir != dir {
		dirs = append(dirs, rootDir)
	}

	for _, d := range dirs {
		for _, ext := range fl.extensions() {
			candidate := filepath.Join(d, name+ext)
			data, err := os.ReadFile(candidate)
			if err == nil {
				return string(data), filepath.Dir(candidate), true
			}
		}
	}
	return "", "", false
}

var _ Loader = (*FileLoader)(nil)

// StaticLoader resolves partials from an in-memory map, keyed by partial
// name. It never consults dir or rootDir, for callers that want partials
// served without filesystem access.
type StaticLoader struct {
	Partials map[string]string
}

func (sl *StaticLoader) Load(name, dir, rootDir string) (string, string, bool) {
	if sl.Partials == nil {
		return "", "", false
	}
	src, ok := sl.Partials[name]
	return src, "", ok
}

var _ Loader = (*StaticLoader)(nil)
