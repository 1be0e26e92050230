package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	headerColor  = color.New(color.FgBlue, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	wallColor    = color.New(color.FgHiBlack)
	markColor    = color.New(color.FgYellow, color.Bold)
	openColor    = color.New(color.FgCyan)
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	jsonOutput bool
	logLevel   string
}

// SetVersion overrides the version reported by --version.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the astarplan command tree.
func NewRootCmd() *cobra.Command {
	globals := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "astarplan",
		Version: version,
		Short:   "Plan paths with a sampled-control A* search",
		Long: `astarplan runs the A* search engine on the bundled reference models.

The grid command plans on a 4-connected integer grid with walls. The planar
command plans a point robot in the continuous plane around circular obstacles.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().BoolVar(&globals.jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newGridCmd(globals))
	rootCmd.AddCommand(newPlanarCmd(globals))

	return rootCmd
}

// newLogger writes text logs to the command's error stream.
func newLogger(cmd *cobra.Command, level string) (*slog.Logger, error) {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler), nil
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
