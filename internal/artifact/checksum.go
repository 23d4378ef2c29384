package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const checksumPrefix = "xxh64:"

// ErrChecksumMismatch indicates the payload does not hash to the recorded checksum.
var ErrChecksumMismatch = errors.New("artifact: checksum mismatch")

// Checksum hashes the canonical JSON form of a payload. Map keys are sorted
// by encoding/json, so equal payloads hash equally across encodings.
func Checksum(p Payload) (string, error) {
	norm, err := p.normalized()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(norm)
	if err != nil {
		return "", fmt.Errorf("artifact: checksum: %w", err)
	}
	return fmt.Sprintf("%s%016x", checksumPrefix, xxhash.Sum64(data)), nil
}

func verifyChecksum(meta Metadata, p Payload) error {
	want := strings.TrimSpace(meta.Checksum)
	if want == "" {
		return nil
	}
	if !strings.HasPrefix(want, checksumPrefix) {
		return fmt.Errorf("artifact: unsupported checksum %q", want)
	}
	got, err := Checksum(p)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: recorded %s, computed %s", ErrChecksumMismatch, want, got)
	}
	return nil
}
