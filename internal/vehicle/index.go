package vehicle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fxamacker/cbor/v2"
)

const indexVersion = 1

var indexEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vehicle: failed to create CBOR enc mode: %v", err))
	}
	indexEncMode = em
}

// Index is a persisted snapshot of resolver caches. Seeding a resolver
// from it lets a later load skip scans for names an earlier load found.
type Index struct {
	Version int               `cbor:"1,keyasint"`
	Engines map[string]string `cbor:"2,keyasint,omitempty"`
	Wagons  map[string]string `cbor:"3,keyasint,omitempty"`
}

// MarshalBinary encodes the index as canonical CBOR.
func (ix *Index) MarshalBinary() ([]byte, error) {
	if ix.Version == 0 {
		ix.Version = indexVersion
	}
	return indexEncMode.Marshal(ix)
}

// UnmarshalBinary decodes a CBOR index.
func (ix *Index) UnmarshalBinary(data []byte) error {
	var decoded Index
	if err := cbor.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("vehicle: unmarshal index: %w", err)
	}
	if decoded.Version != indexVersion {
		return fmt.Errorf("vehicle: unsupported index version %d", decoded.Version)
	}
	*ix = decoded
	return nil
}

// ReadIndex loads an index file. A missing file yields an empty index.
func ReadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Index{Version: indexVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	ix := &Index{}
	if err := ix.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}
	return ix, nil
}

// WriteIndex stores ix at path.
func WriteIndex(path string, ix *Index) error {
	data, err := ix.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index %s: %w", path, err)
	}
	return nil
}

// Clone returns a copy that shares no maps with ix.
func (ix *Index) Clone() *Index {
	out := &Index{Version: indexVersion}
	out.Merge(ix)
	return out
}

// Merge adds the entries of other that ix does not already hold. Names
// are compared with case folding, so an existing spelling is kept.
func (ix *Index) Merge(other *Index) {
	if other == nil {
		return
	}
	ix.Engines = mergeEntries(ix.Engines, other.Engines)
	ix.Wagons = mergeEntries(ix.Wagons, other.Wagons)
}

func mergeEntries(dst, src map[string]string) map[string]string {
	c := NewCache()
	for name, path := range dst {
		c.Add(name, path)
	}
	for name, path := range src {
		c.Add(name, path)
	}
	return c.Entries()
}
