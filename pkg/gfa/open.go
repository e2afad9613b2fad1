package gfa

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the two-byte gzip member header.
var gzipMagic = []byte{0x1f, 0x8b}

// LoadOptions configures [Load].
type LoadOptions struct {
	// TempDir receives the decompressed copy of gzip inputs.
	// Empty means os.TempDir().
	TempDir string
}

// Load reads one GFA file. Gzip inputs are decompressed into a temporary file
// under opts.TempDir, parsed, and the temporary file is removed before Load
// returns, on success and on failure alike.
func Load(path string, opts LoadOptions) (*Graph, error) {
	compressed, err := IsCompressed(path)
	if err != nil {
		return nil, err
	}
	if !compressed {
		return readPlainFile(path)
	}

	tmp, err := decompressToTemp(path, opts.TempDir)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	f, err := os.Open(tmp)
	if err != nil {
		return nil, fmt.Errorf("open decompressed %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f, path)
}

// IsCompressed reports whether path names a gzip file, by suffix or by the
// gzip magic bytes.
func IsCompressed(path string) (bool, error) {
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz") {
		return true, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var sig [2]byte
	n, err := io.ReadFull(f, sig[:])
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return n == 2 && bytes.Equal(sig[:], gzipMagic), nil
}

// decompressToTemp writes the decompressed content of path to a fresh file in
// dir and returns its name. On error nothing is left behind.
func decompressToTemp(path, dir string) (_ string, err error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer src.Close()

	zr, err := gzip.NewReader(src)
	if err != nil {
		return "", fmt.Errorf("gzip %s: %w", path, err)
	}
	defer zr.Close()

	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "gfalace-"+uuid.NewString()+".gfa")
	dst, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create temp copy: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close temp copy: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = io.Copy(dst, zr); err != nil {
		return "", fmt.Errorf("decompress %s: %w", path, err)
	}
	return name, nil
}
