package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-slicer/config"
	"github.com/RyanBlaney/sonido-slicer/logging"
)

// app carries the state shared by every subcommand
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	config *config.Config
	logger logging.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "sonido-slicer",
		Short:         "Detect onsets in audio files and slice loops at them",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"Path to a YAML config file (default ./"+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "",
		"Log format: text or json")

	rootCmd.AddCommand(
		newDetectCommand(a),
		newSliceCommand(a),
		newInfoCommand(a),
	)

	return rootCmd
}

// setup loads the config, applies the persistent flags and installs the
// global logger
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	logging.SetGlobalLogger(logger)

	a.config = cfg
	a.logger = logger.WithFields(logging.Fields{"component": "cli"})
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
