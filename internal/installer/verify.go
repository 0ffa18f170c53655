package installer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// SHA256File computes the hex digest of a whole file.
func SHA256File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash artifact: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifySHA256 compares the file's digest against the expected value,
// case-insensitively. The caller decides what a missing expected digest
// means; this function requires one.
func VerifySHA256(path, expected string) error {
	actual, err := SHA256File(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actual, expected) {
		return &IntegrityError{Expected: strings.ToLower(expected), Actual: actual}
	}
	return nil
}
