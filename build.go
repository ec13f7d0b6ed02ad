package adorable

import (
	"context"
	"fmt"
)

// Build scans every matching file under cfg.Root once and hands the
// composed stylesheet to the resolver. Any read error aborts the build
// before anything is written.
func Build(ctx context.Context, cfg Config) (*BuildResult, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger
	result := &BuildResult{}

	// 1. Discover source files
	files, err := Discover(cfg)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	log.Debug("discovered source files", "root", cfg.Root, "files", len(files))

	// 2. Read all files concurrently
	entries, err := ReadEntries(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	result.FilesScanned = len(entries)

	// 3. Populate the cache in one shot
	cache := NewEntryCache()
	cache.Replace(entries)
	atoms := cache.Atoms()
	result.Atoms = len(atoms)

	// 4. Compose
	sheet := Compose(atoms, cfg.composeOptions())
	if sheet.MinifyErr != nil {
		log.Warn("minify failed, writing unminified output", "error", sheet.MinifyErr)
	}
	result.Stylesheet = sheet

	// 5. Write
	if err := cfg.Resolver(ctx, sheet.CSS); err != nil {
		return nil, fmt.Errorf("write failed: %w", err)
	}
	result.BytesWritten = len(sheet.CSS)

	log.Info(fmt.Sprintf("Generated %s", cfg.Out),
		"files", result.FilesScanned, "atoms", result.Atoms, "rules", sheet.Rules)
	return result, nil
}
