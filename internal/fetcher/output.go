package fetcher

import (
	"fmt"
	"io"
	"os"
)

// writeTextFile truncates (or creates) path and writes text to it. The
// parent directory is not created.
func writeTextFile(path, text string, perm os.FileMode) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if _, err := io.WriteString(f, text); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
