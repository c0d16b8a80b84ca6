package report

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maxgio92/ioprofile/pkg/profile"
)

// fileConfig is the content of a --config file. Empty fields keep defaults.
type fileConfig struct {
	Aggregate         string `yaml:"aggregate"`
	Cell              string `yaml:"cell"`
	GroupBy           string `yaml:"group_by"`
	Output            string `yaml:"output"`
	SharedDescriptors *bool  `yaml:"shared_descriptors"`
}

func loadConfigFile(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer f.Close()

	cfg := new(fileConfig)
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return cfg, nil
}

// runConfig is the resolved configuration of one report run.
type runConfig struct {
	profile           profile.Config
	format            profile.Format
	sharedDescriptors bool
}

// resolve layers defaults, the config file and the flags explicitly set on
// cmd, in increasing precedence, then validates the result.
func (o *Options) resolve(cmd *cobra.Command) (*runConfig, error) {
	aggregate := string(profile.AggregateSum)
	cell := string(profile.CellTimes)
	groupBy := string(profile.GroupByFilename)
	output := string(profile.FormatText)
	shared := false

	if o.configPath != "" {
		fc, err := loadConfigFile(o.configPath)
		if err != nil {
			return nil, err
		}
		setIfNotEmpty(&aggregate, fc.Aggregate)
		setIfNotEmpty(&cell, fc.Cell)
		setIfNotEmpty(&groupBy, fc.GroupBy)
		setIfNotEmpty(&output, fc.Output)
		if fc.SharedDescriptors != nil {
			shared = *fc.SharedDescriptors
		}
	}

	flags := cmd.Flags()
	if flags.Changed(flagAggregate) {
		aggregate = o.aggregate
	}
	if flags.Changed(flagCell) {
		cell = o.cell
	}
	if flags.Changed(flagGroupBy) {
		groupBy = o.groupBy
	}
	if flags.Changed(flagOutput) {
		output = o.output
	}
	if flags.Changed(flagSharedDescriptors) {
		shared = o.sharedDescriptors
	}

	cfg := profile.Config{
		Aggregate: profile.Aggregate(aggregate),
		Cell:      profile.Cell(cell),
		GroupBy:   profile.GroupBy(groupBy),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, err := profile.ParseFormat(output)
	if err != nil {
		return nil, err
	}

	return &runConfig{
		profile:           cfg,
		format:            format,
		sharedDescriptors: shared,
	}, nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
