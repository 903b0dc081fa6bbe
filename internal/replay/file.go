package replay

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// Save writes a script as zstd-compressed YAML.
func Save(w io.Writer, s *Script) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("replay: create zstd writer: %w", err)
	}
	enc := yaml.NewEncoder(zw)
	if err := enc.Encode(s); err != nil {
		_ = zw.Close()
		return fmt.Errorf("replay: encode script: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = zw.Close()
		return fmt.Errorf("replay: encode script: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("replay: close zstd writer: %w", err)
	}
	return nil
}

// Load reads a script written by Save.
func Load(r io.Reader) (*Script, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: create zstd reader: %w", err)
	}
	defer zr.Close()

	var s Script
	if err := yaml.NewDecoder(zr).Decode(&s); err != nil {
		return nil, fmt.Errorf("replay: decode script: %w", err)
	}
	return &s, nil
}

// SaveFile writes a script to path.
func SaveFile(path string, s *Script) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("replay: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := Save(f, s); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("replay: close %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}
