package adorable

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileResolver returns a Resolver that overwrites the file at path,
// creating parent directories as needed.
func FileResolver(path string) Resolver {
	return func(_ context.Context, css string) error {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(path, []byte(css), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return nil
	}
}
