package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const logFilePerm = 0o644

type rootFlags struct {
	debug   bool
	logFile string

	closeLog func() error
}

// newRootCmd builds the command tree. The log file opened for --log-file
// stays open until rf.close is called.
func newRootCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dto-generator",
		Short: "generates conversions between domain types and external types",
		Long: `dto-generator plans, for every field of a record and every arm of a sum
type, how a value is converted to its external counterpart and back, and
renders those plans as Go conversion functions.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return rf.setupLogging()
		},
	}

	cmd.PersistentFlags().BoolVar(&rf.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&rf.logFile, "log-file", "",
		"Path to a file where logs should be written. If empty, logs go to stderr.")

	cmd.AddCommand(
		newPlanCmd(),
		newGenCmd(),
		newVersionCmd(),
	)

	return cmd
}

func (rf *rootFlags) setupLogging() error {
	var w io.Writer = os.Stderr

	if rf.logFile != "" {
		f, err := os.OpenFile(rf.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}

		w = f
		rf.closeLog = f.Close
	}

	level := slog.LevelWarn
	if rf.debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))

	return nil
}

func (rf *rootFlags) close() error {
	if rf.closeLog == nil {
		return nil
	}

	err := rf.closeLog()
	rf.closeLog = nil

	return err
}
