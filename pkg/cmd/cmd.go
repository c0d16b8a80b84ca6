package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maxgio92/ioprofile/internal/settings"
	"github.com/maxgio92/ioprofile/pkg/cmd/normalize"
	"github.com/maxgio92/ioprofile/pkg/cmd/options"
	"github.com/maxgio92/ioprofile/pkg/cmd/report"
)

func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   settings.CmdName,
		Short: fmt.Sprintf("%s is a file I/O profiler for database server traces", settings.CmdName),
		Long: fmt.Sprintf(`
%s is a file I/O profiler for database server traces.
It reads an open-file listing followed by a system call trace of the server,
resolves every I/O call to the file it touched and summarizes counts, sizes
and times per file, per process or overall.
`, settings.CmdName),
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	cmd.PersistentFlags().StringVar(&o.LogLevel, options.LogLevelFlag, options.LogLevelInfo, "Log level (trace, debug, info, warn, error, fatal, panic)")

	cmd.AddCommand(report.NewCommand(
		report.NewOptions(
			report.WithContext(o.Ctx),
			report.WithLogger(o.Logger),
		),
	))
	cmd.AddCommand(normalize.NewCommand(
		normalize.NewOptions(
			normalize.WithContext(o.Ctx),
			normalize.WithLogger(o.Logger),
		),
	))

	return cmd
}

// Execute builds the command tree and runs it. It is called once by main.main().
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := log.New(
		log.ConsoleWriter{Out: os.Stderr},
	).With().Timestamp().Logger()

	opts := NewOptions(
		WithContext(ctx),
		WithLogger(logger),
	)

	if err := NewCommand(opts).Execute(); err != nil {
		cancel()
		os.Exit(1)
	}
}
