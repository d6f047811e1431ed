package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cassandra-tools/range-repair/internal/pkg/build"
	"github.com/cassandra-tools/range-repair/internal/pkg/log"
	"github.com/cassandra-tools/range-repair/internal/pkg/options"
)

const description = `
Range repair for Cassandra

Repairs the token ranges owned by one node in small
sub-range steps, so a failed repair costs a fraction
of a full range instead of the whole thing.

Start with the "run" sub-command. Failed sub-ranges
recorded with --output-status can be re-run later
with the "resume" sub-command.
`

type rootCommand struct {
	cmd         *cobra.Command
	fs          afero.Fs           // filesystem abstraction, swapped for a memory fs in tests
	clock       clockwork.Clock    // time source for the status ledger
	options     *options.Options   // parsed flags and ENV variables
	logger      *zap.SugaredLogger // log to console and logFile
	logFile     *log.File          // log file instance
	ctx         context.Context    // context for the dispatched repairs
	exitCode    int                // resume sets it to the still-failing count
	initialized bool               // init method was called
}

// NewRootCommand creates parent of all sub-commands.
func NewRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer) *rootCommand {
	root := &rootCommand{
		fs:      afero.NewOsFs(),
		clock:   clockwork.NewRealClock(),
		options: &options.Options{},
		ctx:     context.Background(),
	}

	// Command definition
	root.cmd = &cobra.Command{
		Use:          "range-repair",
		Version:      build.Version(),
		Short:        description,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print help if no command specified
			return root.cmd.Help()
		},
	}

	// Setup in/out
	root.cmd.SetIn(stdin)
	root.cmd.SetOut(stdout)
	root.cmd.SetErr(stderr)
	root.cmd.SetVersionTemplate("{{.Version}}")

	// Persistent flags for all sub-commands
	root.options.BindPersistentFlags(root.cmd.PersistentFlags())

	// Root command flags
	root.cmd.Flags().SortFlags = true
	root.cmd.Flags().BoolP("version", "V", false, "print version")

	// Init when flags are parsed
	root.cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return root.init(cmd)
	}

	// Sub-commands
	root.cmd.AddCommand(
		runCommand(root),
		resumeCommand(root),
	)

	return root
}

// Execute command or sub-command.
func (root *rootCommand) Execute() int {
	if err := root.cmd.Execute(); err != nil {
		// Init, it can be uninitialized, if error occurred before PersistentPreRun call
		_ = root.init(root.cmd)
		root.exitCode = 1
	}
	root.tearDown()
	return root.exitCode
}

// init sets logger and options after flags are parsed.
func (root *rootCommand) init(cmd *cobra.Command) error {
	if root.initialized {
		return nil
	}
	root.initialized = true

	// Load values from flags and ENVs
	if err := root.options.Load(cmd.Flags()); err != nil {
		return err
	}

	// Log file, a temp file is used when no --log-file is given
	logFile, err := log.NewLogFile(root.options.LogFilePath)
	if err != nil {
		return fmt.Errorf("cannot open log file: %s", err)
	}
	root.logFile = logFile
	root.logger = log.NewCliLogger(root.cmd.OutOrStdout(), root.cmd.ErrOrStderr(), logFile, root.options.Verbose, root.options.Debug)
	root.logDebugInfo()
	return nil
}

func (root *rootCommand) logDebugInfo() {
	root.logger.Debug(root.cmd.Version)
	root.logger.Debugf("Running command %v", os.Args)
	root.logger.Debug(root.options.Dump())
}

// tearDown makes clean-up after command execution. A temp log file is
// preserved when the run failed.
func (root *rootCommand) tearDown() {
	if root.logger != nil {
		_ = root.logger.Sync()
	}
	if root.logFile != nil {
		if err := root.logFile.TearDown(root.exitCode != 0); err != nil {
			fmt.Fprintln(root.cmd.ErrOrStderr(), err)
		}
		if root.exitCode != 0 && root.logFile.IsTemp() {
			fmt.Fprintf(root.cmd.ErrOrStderr(), "Details can be found in the log file \"%s\".\n", root.logFile.Path())
		}
	}
}
