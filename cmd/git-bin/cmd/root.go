package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aweris/binstore"
	"github.com/aweris/binstore/internal/git"
)

var rootCmd = &cobra.Command{
	Use:           "git-bin",
	Short:         "Large binary file side-store for git",
	Long:          "Keeps large binary files in a content-addressed store outside the repository and tracks them in git as symbolic links.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Exit codes per error kind; diagnostics stay textual for compatibility.
const (
	exitFailure       = 1
	exitUsage         = 2
	exitUnavailable   = 3
	exitUninitialized = 4
	exitConflict      = 5
)

// runError carries an explicit exit code out of a RunE.
type runError struct {
	code int
	err  error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var conflict *binstore.SignatureConflictError
	var run *runError
	switch {
	case errors.As(err, &conflict):
		return exitConflict
	case errors.Is(err, binstore.ErrStoreUninitialized):
		return exitUninitialized
	case errors.Is(err, binstore.ErrStoreUnavailable):
		return exitUnavailable
	case errors.As(err, &run):
		return run.code
	case strings.HasPrefix(err.Error(), "unknown command"):
		// cobra reports unknown subcommands as untyped errors.
		return exitUsage
	default:
		return exitFailure
	}
}

// usageArgs wraps a cobra argument validator so violations exit with the
// usage code instead of the generic failure code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &runError{exitUsage, err}
		}
		return nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &runError{exitUsage, err}
	})

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/git-bin/config.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "", "store directory (default: <store_base>/<repo name>)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GITBIN")
	viper.AutomaticEnv()
	viper.SetDefault("store_base", defaultStoreBase())
	viper.SetDefault("log_level", "warn")

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-bin")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "git-bin")
	}
	return ".git-bin"
}

func defaultStoreBase() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "git-bin")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "git-bin")
	}
	return ".git-bin"
}

// newEngine wires the engine against the current repository: the store
// directory is either configured explicitly or derived from the store base
// and the repository's directory name.
func newEngine() (*binstore.Engine, error) {
	logger, err := newLogger(viper.GetString("log_level"))
	if err != nil {
		return nil, &runError{exitFailure, fmt.Errorf("initializing logger: %w", err)}
	}

	bridge := git.NewCLI("")

	storeDir := viper.GetString("store_dir")
	if storeDir == "" {
		top, err := bridge.TopLevel()
		if err != nil {
			return nil, &runError{exitFailure, fmt.Errorf("locating repository: %w", err)}
		}
		storeDir = filepath.Join(viper.GetString("store_base"), filepath.Base(top))
	}

	eng, err := binstore.Open(storeDir,
		binstore.WithGit(bridge),
		binstore.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	return config.Build()
}

// printResults writes one diagnostic line per path and reports whether any
// path failed.
func printResults(results []binstore.Result) bool {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	failed := false
	for _, r := range results {
		switch r.Action {
		case binstore.ActionFailed:
			failed = true
			fmt.Printf("%s %s: %v\n", red("✗"), r.Path, r.Err)
		case binstore.ActionSkipped:
			fmt.Printf("%s %s (%s)\n", yellow("-"), r.Path, r.Note)
		default:
			if r.Note != "" {
				fmt.Printf("%s %s %s (%s)\n", green("✓"), r.Action, r.Path, r.Note)
			} else {
				fmt.Printf("%s %s %s\n", green("✓"), r.Action, r.Path)
			}
		}
	}
	return failed
}

// finish converts batch output into the command's error, keeping conflict
// and store errors (with their dedicated exit codes) ahead of generic
// per-path failures.
func finish(results []binstore.Result, err error) error {
	failed := printResults(results)
	if err != nil {
		return err
	}
	if failed {
		return &runError{exitFailure, errors.New("some paths failed; see diagnostics above")}
	}
	return nil
}
