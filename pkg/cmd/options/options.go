package options

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	LogLevelFlag = "log-level"
	LogLevelInfo = "info"
)

type CommonOptions struct {
	Ctx      context.Context
	Logger   log.Logger
	LogLevel string
}

// InitLogger applies the --log-level flag of cmd to the logger and tags it
// with the component name.
func (o *CommonOptions) InitLogger(cmd *cobra.Command, component string) error {
	var err error
	o.LogLevel, err = cmd.Flags().GetString(LogLevelFlag)
	if err != nil {
		return errors.Wrap(err, "failed to get log level")
	}

	logLevel, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	o.Logger = o.Logger.Level(logLevel).With().Str("component", component).Logger()

	return nil
}
