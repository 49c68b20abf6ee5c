package snapshot

import (
	"fmt"

	"github.com/gnana997/fibersnap/pkg/util"
)

// Load reads and decodes the snapshot at path. The file is memory-mapped
// for the duration of decoding; the result holds no reference to it.
func Load(path string) (*Snapshot, error) {
	var snap *Snapshot
	err := util.WithMappedFile(path, func(data []byte) error {
		s, err := Decode(data)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return snap, nil
}
