// Package main provides the adorable CLI: build, watch and live-sync atomic
// CSS generated from class names.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yacobolo/adorable/internal/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		useColors := term.ShouldUseColors(false, os.Stderr)
		fmt.Fprintf(os.Stderr, "%s %s %v\n",
			term.RenderStyle(term.StyleCyan, term.Prefix, useColors),
			term.RenderStyle(term.StyleRed, "error", useColors),
			err)
		os.Exit(1)
	}
	stop()
}
