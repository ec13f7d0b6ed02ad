package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .adorable.yaml config file",
	Long:  `Create a .adorable.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(defaultConfigPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", defaultConfigPath)
		}

		if err := os.WriteFile(defaultConfigPath, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", defaultConfigPath)
		return nil
	},
}

const defaultConfig = `# adorable configuration
# Flags override environment variables (ADORABLE_*), which override this file.

root: .
out: adorable.css
watch: false
minify: false
verbose: false
no-reset: false
gitignore: false

extensions:
  - svelte
  - tsx
  - jsx
  - vue
  - mdx
  - svx
  - html

exclude:
  - node_modules
  - .pnpm-store
  - .cache

# Live synchronization in a browser page (adorable live <url>)
live:
  remote: ""      # ws:// or http://host:port of a running Chrome; empty launches one
  headful: false
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
