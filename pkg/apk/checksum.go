package apk

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Checksum returns the hex SHA-256 of the file at path
func (i *Inspector) Checksum(path string) (string, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer f.Close()

	sum, err := checksum(f)
	if err != nil {
		return "", errors.Wrapf(err, "failed to hash file: %s", path)
	}
	return sum, nil
}

// VerifyChecksum compares the file's SHA-256 with expected.
// Case and surrounding whitespace in expected are ignored.
func (i *Inspector) VerifyChecksum(path, expected string) (bool, error) {
	expected = strings.ToLower(strings.TrimSpace(expected))

	actual, err := i.Checksum(path)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

func checksum(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", errors.Wrap(err, "failed to read content")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
