package compressor

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputDirName is the fixed subdirectory of the scanned root that receives
// compressed copies.
const OutputDirName = "compressed"

// EnsureOutputDir creates <root>/compressed (and any missing parents) and
// returns its path. Calling it when the directory already exists is not an
// error.
func EnsureOutputDir(root string) (string, error) {
	dir := filepath.Join(root, OutputDirName)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOutputDir, dir, err)
	}

	return dir, nil
}
