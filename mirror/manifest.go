package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"time"
)

// Entry records one synced document's content identity.
type Entry struct {
	Hash      string    `json:"hash"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Manifest maps translation codes to their last synced state. The remote
// copy is the source of truth across sync runs; the local copy is a cache
// that lets an unchanged file skip remote round-trips entirely.
type Manifest map[string]Entry

// DecodeManifest parses manifest JSON, naming the source on failure.
func DecodeManifest(data []byte, source string) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedManifest, source, err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Encode renders the manifest for upload or local caching.
func (m Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return data, nil
}

// Clone returns an independent copy of the manifest.
func (m Manifest) Clone() Manifest {
	out := make(Manifest, len(m))
	maps.Copy(out, m)
	return out
}

// LoadLocal reads the local manifest cache. A missing file is an empty
// manifest rather than an error: first runs start from nothing.
func LoadLocal(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("reading manifest cache %s: %w", path, err)
	}
	return DecodeManifest(data, path)
}

// SaveLocal writes the manifest cache atomically: temp file in the target
// directory, then rename. A crash mid-write never leaves a half-written
// cache behind to be mistaken for durable state.
func (m Manifest) SaveLocal(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing manifest %s: %w", path, err)
	}
	return nil
}
