package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/tphakala/labelgap/cmd"
	"github.com/tphakala/labelgap/internal/buildinfo"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/errors"
)

// Set with -ldflags "-X main.version=... -X main.buildDate=...".
var (
	version   = ""
	buildDate = ""
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := conf.NewContext(viper.New())
	defer appCtx.Close()

	rootCmd, err := cmd.RootCommand(appCtx, buildinfo.New(version, buildDate))
	if err != nil {
		fmt.Fprintf(os.Stderr, "labelgap: %v\n", err)
		return 1
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "labelgap: %s\n", errors.Describe(err))
		return 1
	}
	return 0
}
