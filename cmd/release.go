package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/go-easytag/internal/config"
	"github.com/MyCarrier-DevOps/go-easytag/internal/git"
	"github.com/MyCarrier-DevOps/go-easytag/internal/logging"
	"github.com/MyCarrier-DevOps/go-easytag/internal/output"
	"github.com/MyCarrier-DevOps/go-easytag/internal/release"
)

func releaseRunE(cmd *cobra.Command, args []string) error {
	if err := validateOutputFlags(); err != nil {
		return err
	}
	verbosity, err := logging.ParseVerbosity(flagVerbosity)
	if err != nil {
		return usageError{err}
	}

	printer := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	logOpts := logging.OptionsFromEnv(verbosity)
	logOpts.Console = cmd.ErrOrStderr()
	logger, closeLog := logging.New(logOpts)
	defer func() { _ = closeLog() }()

	manifestPath := flagManifest
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(flagPath, manifestPath)
	}
	if abs, err := filepath.Abs(manifestPath); err == nil {
		manifestPath = abs
	}

	if flagInit {
		return runInit(printer, manifestPath)
	}

	var action string
	if len(args) == 1 {
		action = args[0]
	}

	repo, err := git.Open(flagPath)
	if err != nil {
		return &release.Error{Kind: release.KindRepository, Message: "could not open git repository", Err: err}
	}
	logger.Debug("repository opened", "path", repo.WorkingDirectory())

	wf := release.NewWorkflow(repo, printer, release.WithLogger(logger))
	res, runErr := wf.Run(cmd.Context(), release.Options{
		ManifestPath: manifestPath,
		ConfigPath:   flagConfig,
		Action:       action,
		Overrides:    flagOverrides(cmd),
		DryRun:       flagDryRun,
	})

	if flagOutput == "json" {
		if err := output.WriteJSON(cmd.OutOrStdout(), res); err != nil {
			logger.Warn("writing JSON summary failed", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	exitStatus = ExitSuccess
	if res.DryRun {
		exitStatus = ExitDryRun
	}
	return nil
}

func runInit(printer *output.Printer, manifestPath string) error {
	previous, err := release.RegisterHook(manifestPath)
	if err != nil {
		return initError{err}
	}
	if previous != "" && previous != release.HookCommand {
		printer.Warning("Replaced %s script %q", release.HookScript, previous)
	}
	printer.Success("Registered %q as the %s script in %s", release.HookCommand, release.HookScript, manifestPath)
	exitStatus = ExitOK
	return nil
}

// flagOverrides returns the config set explicitly on the command line.
func flagOverrides(cmd *cobra.Command) *config.Config {
	var o config.Config
	if cmd.Flags().Changed("no-push") {
		o.NoPush = config.Bool(flagNoPush)
	}
	if cmd.Flags().Changed("annotate") {
		o.Annotate = config.Bool(flagAnnotate)
	}
	if cmd.Flags().Changed("remote") {
		o.Remote = config.String(flagRemote)
	}
	return &o
}
