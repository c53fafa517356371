package cmd

import (
	"github.com/spf13/cobra"
)

type args struct {
	version    string
	LogLevel   string
	ConfigPath string
	TextFormat bool
}

// InitCommands initializes and returns the root command for the application.
func InitCommands(version string) *cobra.Command {
	args := &args{
		version: version,
	}

	cmd := &cobra.Command{
		Use:   "surveyflow",
		Short: "Surveyflow Telegram Bot",
		Long:  "Surveyflow runs branching surveys over Telegram, one question at a time, and submits completed sections to a results service.",
	}

	cmd.PersistentFlags().StringVar(&args.ConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&args.LogLevel, "loglevel", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&args.TextFormat, "logtext", false, "log in text format, otherwise JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the survey bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context(), args)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <definition>",
		Short: "Validate a survey definition file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			return validateDefinition(cmd, args, cmdArgs[0])
		},
	})

	return cmd
}
