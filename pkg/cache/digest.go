package cache

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

// digestKey is the fixed HighwayHash key. Digests only need to be stable
// across runs, not secret.
var digestKey = []byte("gfalace-input-digest-key-000000!")

// FileDigest returns a hex HighwayHash-256 of the file contents. Compressed
// inputs are hashed as stored.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	defer f.Close()
	return ReaderDigest(f)
}

// ReaderDigest returns a hex HighwayHash-256 of everything read from r.
func ReaderDigest(r io.Reader) (string, error) {
	h, err := highwayhash.New(digestKey)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FileDigests digests every path, keeping the input order.
func FileDigests(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		d, err := FileDigest(p)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
