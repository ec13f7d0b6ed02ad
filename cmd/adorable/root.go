package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yacobolo/adorable"
)

var rootCmd = &cobra.Command{
	Use:   "adorable [root]",
	Short: "Atomic CSS generated from the class names in your source files",
	Long: `Scan svelte, tsx, jsx, vue, mdx, svx and html files for atoms such as
p(4), bg(red) or hover:c(blue) and write one stylesheet for all of them.
With --watch the stylesheet is rewritten whenever a source file changes.`,
	Args: cobra.MaximumNArgs(1),
	// Default behavior: run build when no subcommand is given.
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".adorable.yaml", "Config file path")

	addBuildFlags(rootCmd.Flags())

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(injectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// addBuildFlags registers the flags shared by the root and build commands.
func addBuildFlags(f *pflag.FlagSet) {
	f.StringP("out", "o", adorable.DefaultOut, "Output stylesheet path")
	f.BoolP("watch", "w", false, "Rewrite the stylesheet whenever a source file changes")
	f.BoolP("minify", "m", false, "Minify the stylesheet")
	f.Bool("noReset", false, "Omit the reset stylesheet")
	f.Bool("gitignore", false, "Skip files ignored by <root>/.gitignore")
	f.StringSlice("ext", nil, "File extensions to scan (default svelte,tsx,jsx,vue,mdx,svx,html)")
	f.StringSlice("exclude", nil, "Directory names to skip (default node_modules,.pnpm-store,.cache)")
}
