package util

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// WithMappedFile memory-maps path read-only and passes its contents to fn.
// The slice is only valid until fn returns; copy anything that must outlive
// the call. Empty files are passed as an empty slice, and when mapping fails
// the file is read with os.ReadFile instead.
func WithMappedFile(path string, fn func(data []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.IsDir() {
		return fmt.Errorf("%q is a directory", path)
	}
	if stat.Size() == 0 {
		return fn([]byte{})
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return fmt.Errorf("failed to read file %q: %w", path, rerr)
		}
		return fn(data)
	}
	defer m.Unmap()
	return fn(m)
}
