package report

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/maxgio92/ioprofile/internal/output"
	"github.com/maxgio92/ioprofile/internal/settings"
	"github.com/maxgio92/ioprofile/pkg/cmd/common"
	"github.com/maxgio92/ioprofile/pkg/profile"
	"github.com/maxgio92/ioprofile/pkg/trace"
)

const (
	CmdName = "report"

	flagConfig            = "config"
	flagAggregate         = "aggregate"
	flagCell              = "cell"
	flagGroupBy           = "group-by"
	flagOutput            = "output"
	flagSharedDescriptors = "shared-descriptors"
	flagStatus            = "status"
)

func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [FILE]", CmdName),
		Short: "Summarize the file I/O of a captured trace",
		Long: fmt.Sprintf(`
%s reads a capture made of an open-file listing followed by a system call
trace (from FILE, or standard input when FILE is missing or "-") and prints
the I/O profile grouped by file, by process or overall.
`, CmdName),
		Example: fmt.Sprintf(`  %[1]s %[2]s capture.txt --cell sizes --group-by pid
  %[1]s %[2]s --config %[3]s < capture.txt`, settings.CmdName, CmdName, settings.ConfigFileExample),
		Args:              cobra.MaximumNArgs(1),
		DisableAutoGenTag: true,
		RunE:              o.Run,
	}

	cmd.Flags().StringVar(&o.configPath, flagConfig, "", "YAML file with aggregate, cell, group_by, output and shared_descriptors")
	cmd.Flags().StringVarP(&o.aggregate, flagAggregate, "a", string(profile.AggregateSum), "Aggregate function (sum, avg)")
	cmd.Flags().StringVarP(&o.cell, flagCell, "c", string(profile.CellTimes), "Cell metric (count, sizes, times)")
	cmd.Flags().StringVarP(&o.groupBy, flagGroupBy, "g", string(profile.GroupByFilename), "Group rows by (all, filename, pid)")
	cmd.Flags().StringVarP(&o.output, flagOutput, "o", string(profile.FormatText), "Output format (text, json)")
	cmd.Flags().BoolVar(&o.sharedDescriptors, flagSharedDescriptors, false, "Resolve descriptors in one table for all processes")
	cmd.Flags().BoolVar(&o.status, flagStatus, false, "Periodically print the progress on a terminal")

	return cmd
}

func (o *Options) Run(cmd *cobra.Command, args []string) error {
	if err := o.InitLogger(cmd, CmdName); err != nil {
		return err
	}

	s, err := o.resolve(cmd)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	input, err := common.OpenInput(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer input.Close()

	normalizer := trace.NewNormalizer(
		trace.WithNormalizerSharedDescriptors(s.sharedDescriptors),
		trace.WithNormalizerLogger(o.Logger),
	)
	profiler := profile.NewProfiler(
		profile.WithConfig(s.profile),
		profile.WithNormalizer(normalizer),
		profile.WithLogger(o.Logger),
	)

	o.Logger.Debug().
		Str("input", input.Name).
		Str("aggregate", string(s.profile.Aggregate)).
		Str("cell", string(s.profile.Cell)).
		Str("group_by", string(s.profile.GroupBy)).
		Bool("shared_descriptors", s.sharedDescriptors).
		Msg("building report")

	stopStatus := o.printStatus(normalizer, input)
	report, err := profiler.Run(o.Ctx, input)
	stopStatus()
	if err != nil {
		return err
	}

	stats := normalizer.Stats()
	o.Logger.Info().
		Uint64("records", stats.Records).
		Uint64("events", stats.Events).
		Uint64("unresolved", stats.Unresolved).
		Uint64("orphans", stats.Orphans).
		Int("rows", len(report.Rows)).
		Msg("report built")

	if err := report.Write(cmd.OutOrStdout(), s.format); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	return nil
}

// printStatus prints the progress on stderr, when it is a terminal, until
// the returned function is called.
func (o *Options) printStatus(normalizer *trace.Normalizer, input *common.Input) func() {
	if !o.status || !output.IsTerminal(os.Stderr) {
		return func() {}
	}

	ctx, cancel := context.WithCancel(o.Ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		output.StatusBar(ctx,
			1*time.Second, // bar refresh interval.
			func() {
				records, events := normalizer.Progress()
				output.PrintRight(os.Stderr, output.PrettyParseStatus(input.Progress(), records, events))
			},
		)
	}()

	return func() {
		cancel()
		<-done
		fmt.Fprintln(os.Stderr)
	}
}
