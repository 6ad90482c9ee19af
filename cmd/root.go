package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/labelgap/cmd/annotate"
	"github.com/tphakala/labelgap/cmd/categories"
	"github.com/tphakala/labelgap/cmd/report"
	"github.com/tphakala/labelgap/cmd/toplabels"
	"github.com/tphakala/labelgap/internal/buildinfo"
	"github.com/tphakala/labelgap/internal/conf"
	"github.com/tphakala/labelgap/internal/errors"
	"github.com/tphakala/labelgap/internal/logger"
	"github.com/tphakala/labelgap/internal/observability"
	"github.com/tphakala/labelgap/internal/telemetry"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *conf.Context, info buildinfo.Info) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   "labelgap",
		Short: "Label disparity analysis for portrait images",
		Long: `labelgap labels portrait images through the Cloud Vision API, joins
each image to the group of the person it shows and reports which labels and
label categories are applied disproportionately to one group.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, ctx); err != nil {
		return nil, err
	}

	rootCmd.AddCommand(
		annotate.Command(ctx),
		toplabels.Command(ctx),
		categories.Command(ctx),
		report.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Only the flags of the command being run override settings.
		if err := ctx.BindFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := ctx.Load(); err != nil {
			return err
		}
		return initialize(ctx, info)
	}

	return rootCmd, nil
}

// initialize sets up logging, error telemetry and metrics once the
// settings are loaded.
func initialize(ctx *conf.Context, info buildinfo.Info) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	s := ctx.Settings
	closeTelemetry, err := telemetry.Init(telemetry.Config{
		Enabled: s.Telemetry.Enabled,
		DSN:     s.Telemetry.DSN,
		Release: info.Release(),
		RunID:   ctx.RunID,
	})
	if err != nil {
		return err
	}
	ctx.OnClose(closeTelemetry)

	m, err := observability.NewMetrics()
	if err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryConfiguration).
			Context("operation", "metrics-init").
			Build()
	}
	ctx.Metrics = m

	logger.Global().Debug("Run initialized",
		logger.String("trace_id", ctx.RunID),
		logger.String("version", info.Version),
		logger.String("config_file", ctx.Viper.ConfigFileUsed()))
	return nil
}

// setupLogging installs the global logger: JSON to the configured log file,
// otherwise text on stderr.
func setupLogging(ctx *conf.Context) error {
	s := ctx.Settings
	level, _ := logger.ParseLevel(s.Logging.Level)
	if s.Debug {
		level = logger.LogLevelDebug
	}

	if s.Logging.File == "" {
		logger.SetGlobal(logger.NewConsoleLogger("", level))
		return nil
	}

	l, err := logger.NewSlogLoggerWithFile(s.Logging.File, level, time.Local)
	if err != nil {
		return errors.FileError("cmd", err, s.Logging.File)
	}
	logger.SetGlobal(l)
	ctx.OnClose(func() { _ = l.Close() })
	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, ctx *conf.Context) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.ConfigFile, "config", "c", "", "Path to config.yaml (default ./config.yaml or ~/.config/labelgap/config.yaml)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-file", "", "Write JSON logs to this file instead of stderr")
	flags.String("metrics-textfile", "", "Write Prometheus metrics to this textfile")
	flags.String("roster", "", "Tab-separated person roster")
	flags.String("annotations", "", "Annotation table")
	flags.StringP("output", "o", "", "Directory receiving report files")

	return conf.MarkFlags(flags, map[string]string{
		"debug":            "debug",
		"log-level":        "logging.level",
		"log-file":         "logging.file",
		"metrics-textfile": "metrics.textfile",
		"roster":           "input.roster",
		"annotations":      "input.annotations",
		"output":           "output.dir",
	})
}
