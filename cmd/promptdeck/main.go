package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/promptdeck/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config path (optional, defaults to ~/.config/promptdeck/config.toml)")
	pollSeconds := flag.Int("poll", 0, "likes refresh interval in seconds (optional, defaults to 60s)")
	prefsPath := flag.String("prefs", "", "preferences path (optional)")
	dump := flag.Bool("dump", false, "load once, print totals, entries and charts as JSON, and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Dump:       *dump,
		Out:        os.Stdout,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "promptdeck: %v\n", err)
		return 1
	}
	return 0
}
