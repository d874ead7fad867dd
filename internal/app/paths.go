package app

import (
	"os"
	"path/filepath"
)

// Default project-relative locations of atlas sources and outputs.
const (
	DefaultSrcDir = "atlases_src"
	DefaultOutDir = "atlases"
)

// Paths holds all resolved filesystem paths for one project.
// All fields are pre-computed at construction.
type Paths struct {
	Src string // atlases_src/
	Out string // atlases/

	Root   string // .atlaspack/
	Ledger string // .atlaspack/ledger.db
}

// NewPaths constructs all resolved paths from a project root directory.
// Empty src or out fall back to the defaults; relative ones are resolved
// against projectRoot.
func NewPaths(projectRoot, src, out string) *Paths {
	root := filepath.Join(projectRoot, ".atlaspack")
	return &Paths{
		Src: resolve(projectRoot, src, DefaultSrcDir),
		Out: resolve(projectRoot, out, DefaultOutDir),

		Root:   root,
		Ledger: filepath.Join(root, "ledger.db"),
	}
}

func resolve(projectRoot, path, def string) string {
	if path == "" {
		path = def
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(projectRoot, path)
}

// EnsureDirs creates the .atlaspack/ directory. Idempotent.
func (p *Paths) EnsureDirs() error {
	return os.MkdirAll(p.Root, 0755)
}
