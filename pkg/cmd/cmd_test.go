package cmd

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	log "github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testCapture = `COMMAND   PID  USER   FD   TYPE DEVICE SIZE/OFF    NODE NAME
mysqld   1000 mysql    3u   REG  253,0 79691776  131090 /var/lib/mysql/ibdata1
Process 1000 attached with 2 threads - interrupt to quit
[pid  1001] pread64(3, ""..., 16384, 0) = 16384 <0.000100>
[pid  1001] pwrite64(3, ""..., 4096, 0) = 4096 <0.000200>
`

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	opts := NewOptions(
		WithContext(context.Background()),
		WithLogger(log.New(log.NewTestWriter(t))),
	)

	return NewCommand(opts)
}

func TestNewCommand(t *testing.T) {
	cmd := newTestCommand(t)
	require.NotNil(t, cmd)
	require.Equal(t, "ioprofile", cmd.Name())
	require.Contains(t, cmd.Short, "file I/O profiler")
	require.Contains(t, cmd.Long, "ioprofile")
	require.Contains(t, cmd.Long, "profiler")
	require.True(t, cmd.HasSubCommands())
	require.True(t, cmd.DisableAutoGenTag)
}

func TestCommandFlags(t *testing.T) {
	cmd := newTestCommand(t)

	flag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, flag)
	require.Equal(t, "string", flag.Value.Type())
	require.Equal(t, "info", flag.DefValue)
	require.Contains(t, flag.Usage, "Log level")
}

func TestCommandSubcommands(t *testing.T) {
	cmd := newTestCommand(t)

	subcommands := make(map[string]*cobra.Command)
	for _, subCmd := range cmd.Commands() {
		subcommands[subCmd.Name()] = subCmd
	}

	for _, name := range []string{"report", "normalize"} {
		require.Contains(t, subcommands, name)
		require.True(t, subcommands[name].DisableAutoGenTag, name)
	}
}

func TestCommandHelp(t *testing.T) {
	cmd := newTestCommand(t)

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	helpOutput := output.String()
	require.Contains(t, helpOutput, "ioprofile")
	require.Contains(t, helpOutput, "profiler")
	require.Contains(t, helpOutput, "Available Commands:")
	require.Contains(t, helpOutput, "report")
	require.Contains(t, helpOutput, "normalize")
}

func TestCommandExecutionWithoutSubcommand(t *testing.T) {
	cmd := newTestCommand(t)

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	require.Contains(t, output.String(), "Available Commands:")
}

func TestCommandInvalidFlag(t *testing.T) {
	cmd := newTestCommand(t)

	var output bytes.Buffer
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"--invalid-flag"})

	require.Error(t, cmd.Execute())
	require.Contains(t, output.String(), "unknown flag")
}

func TestCommandLogLevelFlag(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		wantErr  bool
	}{
		{"trace level", "trace", false},
		{"debug level", "debug", false},
		{"info level", "info", false},
		{"warn level", "warn", false},
		{"error level", "error", false},
		{"invalid level", "invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t)

			var stdout, stderr bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetIn(strings.NewReader(testCapture))
			cmd.SetArgs([]string{"--log-level", tt.logLevel, "normalize"})

			err := cmd.Execute()
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, stderr.String(), "invalid log level")
				return
			}
			require.NoError(t, err)
			require.Equal(t, 2, strings.Count(stdout.String(), "\n"))
		})
	}
}

func TestCommandReport(t *testing.T) {
	cmd := newTestCommand(t)

	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetIn(strings.NewReader(testCapture))
	cmd.SetArgs([]string{"report", "--group-by", "all", "--cell", "sizes"})
	require.NoError(t, cmd.Execute())

	require.Equal(t, ""+
		"     16384 pread64\n"+
		"      4096 pwrite64\n"+
		"     20480 TOTAL\n", output.String())
}

func TestCommandContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := NewOptions(WithContext(ctx), WithLogger(log.Nop()))
	cmd := NewCommand(opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(testCapture))
	cmd.SetArgs([]string{"report"})

	err := cmd.Execute()
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, stdout.String())
}

func TestCommandMissingCapture(t *testing.T) {
	cmd := newTestCommand(t)

	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"report", "/nonexistent/capture.txt"})

	err := cmd.Execute()
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, stderr.String(), "failed to open capture")
}
