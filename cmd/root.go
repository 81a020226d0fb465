package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MyCarrier-DevOps/go-easytag/internal/logging"
	"github.com/MyCarrier-DevOps/go-easytag/internal/manifest"
	"github.com/MyCarrier-DevOps/go-easytag/internal/output"
)

// Global flags shared across commands.
var (
	flagInit      bool
	flagPath      string
	flagManifest  string
	flagConfig    string
	flagRemote    string
	flagNoPush    bool
	flagAnnotate  bool
	flagDryRun    bool
	flagOutput    string
	flagVerbosity string
)

// exitStatus is the code a successful run exits with. Commands set it;
// errors are mapped by exitCodeFor instead.
var exitStatus int

// rootCmd is the top-level command for easytag.
var rootCmd = &cobra.Command{
	Use:   "easytag [patch|minor|major]",
	Short: "Bump the version, commit, tag and push a release",
	Long: `easytag bumps the version in package.json, commits the change, tags the
commit with a branch-aware tag name and pushes branch and tags.

On master or main the tag is v<version>; on any other branch it is
<branch>-v<version>. Run "easytag --init" to register easytag as the npm
preversion script, after which "npm version <action>" drives it.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          releaseRunE,
}

func init() {
	rootCmd.Flags().BoolVar(&flagInit, "init", false, "register easytag as the manifest's preversion script and exit")
	rootCmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path inside the git repository")
	rootCmd.Flags().StringVarP(&flagManifest, "manifest", "m", manifest.DefaultFileName, "manifest file, relative to --path")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file (default: auto-detect)")
	rootCmd.Flags().StringVar(&flagRemote, "remote", "", "remote to push to (default: origin)")
	rootCmd.Flags().BoolVar(&flagNoPush, "no-push", false, "commit and tag without pushing")
	rootCmd.Flags().BoolVar(&flagAnnotate, "annotate", false, "create an annotated tag instead of a lightweight one")
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "compute and print the tags without changing anything")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "output format: json, or empty for status lines only")
	rootCmd.PersistentFlags().StringVarP(&flagVerbosity, "verbosity", "v", "info", "verbosity: quiet, info, debug")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
}

// Execute runs the root command with the process arguments and returns the
// exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			output.NewPrinter(stderr, false).Error("unexpected failure: %v", r)
			code = ExitUnexpected
		}
	}()

	resetFlags()
	exitStatus = ExitOK

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newPrinter(stdout, stderr).Error("%v", err)
		return exitCodeFor(err)
	}
	return exitStatus
}

// newPrinter writes status lines to stdout, or to stderr when stdout
// carries JSON.
func newPrinter(stdout, stderr io.Writer) *output.Printer {
	w := stdout
	if flagOutput == "json" {
		w = stderr
	}
	v, _ := logging.ParseVerbosity(flagVerbosity)
	return output.NewPrinter(w, v == logging.VerbosityQuiet)
}

// resetFlags restores every flag to its default so repeated executions in
// one process start clean.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
}

func validateOutputFlags() error {
	switch flagOutput {
	case "", "json":
		return nil
	default:
		return usageError{fmt.Errorf("unknown output format %q (use json)", flagOutput)}
	}
}
