package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gnana997/fibersnap/pkg/codegen"
)

// ErrExists is returned by WriteArtifacts when a file exists and overwriting
// is off.
var ErrExists = errors.New("file already exists")

// WriteOptions controls how artifacts reach disk.
type WriteOptions struct {
	// Overwrite replaces existing files.
	Overwrite bool
	// Flat writes into the output directory itself instead of a
	// per-component subdirectory.
	Flat bool
}

// Dir returns the directory a result is written to under outDir.
func (r *Result) Dir(outDir string, opts WriteOptions) string {
	if opts.Flat {
		return outDir
	}
	return filepath.Join(outDir, r.Component)
}

// Write writes the result's artifacts under outDir and returns the written
// paths.
func (r *Result) Write(outDir string, opts WriteOptions) ([]string, error) {
	return WriteArtifacts(r.Dir(outDir, opts), r.Artifacts, opts.Overwrite)
}

// WriteArtifacts writes each artifact into dir. Names must be plain file
// names. Existing files are checked before anything is written, so a refused
// package leaves the directory untouched.
func WriteArtifacts(dir string, artifacts []codegen.Artifact, overwrite bool) ([]string, error) {
	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		if a.Name == "" || a.Name != filepath.Base(a.Name) || a.Name == "." || a.Name == ".." {
			return nil, fmt.Errorf("invalid artifact name %q", a.Name)
		}
		paths[i] = filepath.Join(dir, a.Name)
		if overwrite {
			continue
		}
		if _, err := os.Stat(paths[i]); err == nil {
			return nil, fmt.Errorf("%s: %w", paths[i], ErrExists)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for i, a := range artifacts {
		if err := writeFileAtomic(paths[i], []byte(a.Content)); err != nil {
			return paths[:i], err
		}
	}
	return paths, nil
}

// writeFileAtomic writes through a temporary file in the same directory so
// watchers never see a half-written file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
