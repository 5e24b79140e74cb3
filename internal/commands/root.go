package commands

import (
	"github.com/ppiankov/lambdaspectre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	version string
	commit  string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "lambdaspectre",
	Short: "lambdaspectre — Lambda runtime deprecation scanner",
	Long: `lambdaspectre inventories AWS Lambda functions across regions and accounts,
classifies each runtime against the AWS end-of-support schedule, and estimates
migration effort from deployment package size.

Deprecated runtimes keep running but stop receiving security patches.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logging.Init(verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}
