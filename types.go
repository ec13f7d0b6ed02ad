package adorable

import (
	"context"
	"log/slog"
)

// Default configuration values.
const (
	DefaultRoot = "."
	DefaultOut  = "adorable.css"
)

// DefaultExtensions lists the file extensions scanned for atoms.
var DefaultExtensions = []string{"svelte", "tsx", "jsx", "vue", "mdx", "svx", "html"}

// DefaultExclude lists directory names skipped at any depth below the root.
var DefaultExclude = []string{"node_modules", ".pnpm-store", ".cache"}

// Resolver receives every composed stylesheet. The default resolver writes
// the stylesheet to Config.Out.
type Resolver func(ctx context.Context, css string) error

// Config holds the settings of one build or watch run.
// It must not be modified once a run has started.
type Config struct {
	Root       string   // Directory scanned for source files
	Out        string   // Output stylesheet path
	Extensions []string // File extensions without the leading dot
	Exclude    []string // Directory names never scanned
	Watch      bool     // Keep running and rewrite on change
	Minify     bool     // Minify the composed stylesheet
	Verbose    bool     // Emit info level diagnostics
	NoReset    bool     // Omit the reset stylesheet
	Gitignore  bool     // Skip paths ignored by {Root}/.gitignore

	// Resolver overrides where stylesheets go. Nil writes to Out.
	Resolver Resolver
	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Root:       DefaultRoot,
		Out:        DefaultOut,
		Extensions: append([]string(nil), DefaultExtensions...),
		Exclude:    append([]string(nil), DefaultExclude...),
	}
}

// withDefaults fills zero fields with their defaults.
func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = DefaultRoot
	}
	if c.Out == "" {
		c.Out = DefaultOut
	}
	if len(c.Extensions) == 0 {
		c.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), DefaultExclude...)
	}
	if c.Resolver == nil {
		c.Resolver = FileResolver(c.Out)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

func (c Config) composeOptions() ComposeOptions {
	return ComposeOptions{NoReset: c.NoReset, Minify: c.Minify}
}

// Entry holds the atoms read from one source file.
// An empty Atoms slice means the file was scanned and held no atoms.
type Entry struct {
	Path  string
	Atoms []string
}

// ComposeOptions controls stylesheet composition.
type ComposeOptions struct {
	NoReset bool
	Minify  bool
}

// Stylesheet is the result of one composition.
type Stylesheet struct {
	CSS       string // Text handed to the resolver
	Rules     int    // Number of generated rules
	Minified  bool   // True when CSS is the minified form
	MinifyErr error  // Set when minification was requested but failed
}

// BuildResult contains statistics about a static build.
type BuildResult struct {
	FilesScanned int
	Atoms        int
	BytesWritten int
	Stylesheet   Stylesheet
}
