package normalize

import (
	"bufio"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/ioprofile/internal/settings"
	"github.com/maxgio92/ioprofile/pkg/cmd/common"
	"github.com/maxgio92/ioprofile/pkg/trace"
)

const (
	CmdName = "normalize"

	flagSharedDescriptors = "shared-descriptors"
)

func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [FILE]", CmdName),
		Short: "Print the I/O events resolved from a captured trace",
		Long: fmt.Sprintf(`
%s reads a capture (from FILE, or standard input when FILE is missing or "-")
and prints one line per resolved I/O call:

  pid function fd size duration filename
`, CmdName),
		Example:           fmt.Sprintf(`  %s %s capture.txt | grep ibdata1`, settings.CmdName, CmdName),
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().BoolVar(&o.sharedDescriptors, flagSharedDescriptors, false, "Resolve descriptors in one table for all processes")

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, args []string) error {
	if err := o.InitLogger(cmd, CmdName); err != nil {
		return err
	}

	input, err := common.OpenInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer input.Close()

	normalizer := trace.NewNormalizer(
		trace.WithNormalizerSharedDescriptors(o.sharedDescriptors),
		trace.WithNormalizerLogger(o.Logger),
	)

	w := bufio.NewWriter(cmd.OutOrStdout())
	err = normalizer.Run(o.Ctx, input, func(e trace.Event) error {
		_, err := fmt.Fprintln(w, e.String())
		return err
	})
	if ferr := w.Flush(); err == nil && ferr != nil {
		err = errors.Wrap(ferr, "failed to write events")
	}
	if err != nil {
		return err
	}

	stats := normalizer.Stats()
	o.Logger.Info().
		Uint64("records", stats.Records).
		Uint64("events", stats.Events).
		Uint64("unresolved", stats.Unresolved).
		Uint64("orphans", stats.Orphans).
		Msg("capture normalized")

	return nil
}
