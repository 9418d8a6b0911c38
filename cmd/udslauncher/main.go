package main

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"udsterminal.dev/launcher/internal/bootstrap"
	"udsterminal.dev/launcher/internal/configloader"
	"udsterminal.dev/launcher/internal/history"
	"udsterminal.dev/launcher/internal/history/delegate/sqlite"
	"udsterminal.dev/launcher/internal/manifest"
	"udsterminal.dev/launcher/internal/python"
	"udsterminal.dev/launcher/internal/shortcut"
	"udsterminal.dev/launcher/internal/terminal"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "udslauncher"

func rootCommand(exitCode *int) *cli.Command {
	return &cli.Command{
		Name:  APPLICATION_NAME,
		Usage: "check the Python requirements of the UDS terminal and start it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "",
				Usage: "Configuration file path",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			report, err := launch(ctx, cmd.String("config"), os.Stdout, os.Stdin)
			if err != nil {
				// Already reported to the user
				*exitCode = bootstrap.FAILURE_EXIT_CODE
				return nil
			}
			*exitCode = report.ExitCode
			return nil
		},
	}
}

func launch(ctx context.Context, configurationFilePath string, stdout io.Writer, stdin io.Reader) (report bootstrap.Report, err error) {
	// Pausing until the configuration says otherwise, startup errors stay readable
	console := terminal.New(stdout, stdin, true)
	defer func() {
		if err != nil {
			logrus.Errorf("%+v", err)
			console.Failure("The launcher cannot start: %v", err)
			console.Acknowledge(ctx)
		}
	}()

	// Loading application configuration
	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, configurationFilePath)
	if err != nil {
		return
	}
	console = terminal.New(stdout, stdin, configuration.Pause)
	level, err := logrus.ParseLevel(configuration.LogLevel)
	if err != nil {
		return
	}

	// Set log level
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(level)
	if configurationFilePath != "" {
		logrus.Infof("Loaded config file %s", configurationFilePath)
	}
	logrus.Debugf("Setting log level to %s", level.String())

	if bi, ok := debug.ReadBuildInfo(); ok {
		logrus.Debug("Launching UDS launcher v.", bi.Main.Version)
	}

	requirements, err := manifest.Load(configuration.ManifestPath)
	if err != nil {
		return
	}

	dir, err := launcherDir(configuration.LauncherDir)
	if err != nil {
		return
	}
	// Relative paths of the target program resolve from its own folder
	if err = os.Chdir(dir); err != nil {
		return
	}
	logrus.Debugf("Working directory set to %s", dir)

	interpreter := python.NewInterpreter(configuration.PythonExecutable)
	launcher := bootstrap.NewLauncher(requirements, interpreter, interpreter, console, dir)

	if configuration.CreateShortcut {
		launcher.SetShortcut(shortcut.NewBatchShortcut(interpreterPath(configuration.PythonExecutable)))
	}

	if configuration.HistoryEnabled {
		journal := history.NewJournal(configuration.HistoryPath, &sqlite.SQLiteDelegate{})
		if openErr := journal.Open(); openErr != nil {
			logrus.Warnf("Run history disabled: %v", openErr)
		} else {
			defer journal.Close()
			logPreviousRun(journal)
			journal.Subscribe(launcher.FinishedEventEmitter)
		}
	}

	report = launcher.Run(ctx)
	return
}

// launcherDir returns the configured folder, or the folder of the launcher executable.
func launcherDir(configured string) (string, error) {
	if configured != "" {
		return filepath.Abs(configured)
	}
	executable, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(executable); err == nil {
		executable = resolved
	}
	return filepath.Dir(executable), nil
}

// interpreterPath resolves the interpreter through PATH so that the shortcut keeps working from Explorer.
func interpreterPath(executable string) string {
	if resolved, err := exec.LookPath(executable); err == nil {
		if absolute, err := filepath.Abs(resolved); err == nil {
			return absolute
		}
	}
	return executable
}

func logPreviousRun(journal *history.Journal) {
	previous, err := journal.LastRun()
	if err != nil {
		logrus.Warnf("Cannot read the run history: %v", err)
		return
	}
	if previous == nil {
		logrus.Debug("First recorded run")
		return
	}
	logrus.WithFields(logrus.Fields{
		"run":       previous.ID,
		"outcome":   previous.Outcome,
		"exit_code": previous.ExitCode,
	}).Debugf("Previous run started at %s", previous.StartedAt.Format("2006-01-02 15:04:05"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	// A second interrupt falls back to the default behaviour
	go func() {
		<-ctx.Done()
		stop()
	}()

	exitCode := 0
	if err := rootCommand(&exitCode).Run(ctx, os.Args); err != nil {
		logrus.Errorf("%+v", err)
		exitCode = bootstrap.FAILURE_EXIT_CODE
	}
	stop()
	os.Exit(exitCode)
}
