package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/adorable/internal/browser"
	"github.com/yacobolo/adorable/livesync"
)

var liveCmd = &cobra.Command{
	Use:   "live <url>",
	Short: "Keep a stylesheet in sync with the DOM of a page open in Chrome",
	Long: `Open url in Chrome, inject a style element and rewrite it whenever
class attributes or elements change. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runLive,
}

func init() {
	f := liveCmd.Flags()
	f.String("remote", "", "Connect to a running Chrome (ws:// or http://host:port) instead of launching one")
	f.Bool("headful", false, "Show the browser window of a launched Chrome")
	f.BoolP("minify", "m", false, "Minify the stylesheet")
	f.Bool("noReset", false, "Omit the reset stylesheet")
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := newLogger(getBoolWithFallback("verbose", false))

	b, err := browser.Launch(ctx, browser.Config{
		RemoteURL: getStringWithFallback("live.remote", ""),
		Headful:   getBoolWithFallback("live.headful", false),
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Error("close browser", "error", err)
		}
	}()

	page, err := b.Open(ctx, args[0])
	if err != nil {
		return err
	}

	sync := livesync.New(page, livesync.Options{
		NoReset: getBoolWithFallback("no-reset", false),
		Minify:  getBoolWithFallback("minify", false),
		Logger:  log,
	})
	if err := sync.Attach(ctx); err != nil {
		return fmt.Errorf("live sync failed: %w", err)
	}
	defer sync.Close()

	log.Info(fmt.Sprintf("Synchronizing %s", args[0]), "atoms", len(sync.Atoms()))
	<-ctx.Done()
	return nil
}
