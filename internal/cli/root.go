package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/extract-method/internal/config"
	"github.com/mvp-joe/extract-method/internal/extractor"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitError       = 2
	ExitNotFeasible = 4
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "extract-method",
	Short: "Extract a range of JavaScript or TypeScript into a function",
	Long: `extract-method checks whether a line range of a JavaScript or TypeScript
file can be pulled out into its own function, and generates that function
together with the call that replaces the range.

Examples:
  extract-method analyze src/app.js --lines 14-17
  extract-method preview src/app.js --lines 14-17 --name handleSave
  extract-method apply src/app.js --lines 14-17 --name handleSave --location after`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, extractor.ErrNotFeasible):
		return ExitNotFeasible
	default:
		return ExitError
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadSettings loads configuration and builds the logger for a command.
// Logs go to the command's stderr so stdout stays machine readable.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg, verbose), nil
}

func newLogger(w io.Writer, cfg *config.Config, verbose bool) *slog.Logger {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
