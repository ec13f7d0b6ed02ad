package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yacobolo/adorable/internal/htmldoc"
	"github.com/yacobolo/adorable/livesync"
)

var injectCmd = &cobra.Command{
	Use:   "inject <file.html>",
	Short: "Write an HTML file with the stylesheet for its classes in the head",
	Long: `Parse an HTML file, run one live synchronization pass over it and
print the resulting document. The stylesheet lands in a style element
appended to the head.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInject,
}

func init() {
	f := injectCmd.Flags()
	f.StringP("out", "o", "-", "Output file (- for stdout)")
	f.BoolP("minify", "m", false, "Minify the stylesheet")
	f.Bool("noReset", false, "Omit the reset stylesheet")
}

func runInject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := newLogger(getBoolWithFallback("verbose", false))

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	doc, err := htmldoc.Parse(in)
	_ = in.Close()
	if err != nil {
		return err
	}

	sync := livesync.New(doc, livesync.Options{
		NoReset: getBoolWithFallback("no-reset", false),
		Minify:  getBoolWithFallback("minify", false),
		Logger:  log,
	})
	if err := sync.Attach(ctx); err != nil {
		return fmt.Errorf("inject failed: %w", err)
	}
	if err := sync.Close(); err != nil {
		return err
	}

	out := getStringWithFallback("inject.out", "-")
	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}
	if err := doc.Render(w); err != nil {
		return fmt.Errorf("render %s: %w", out, err)
	}

	log.Info(fmt.Sprintf("Injected %d atoms into %s", len(sync.Atoms()), args[0]))
	return nil
}
