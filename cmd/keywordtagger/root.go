package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logFormatFlag string
	var verbose bool
	var flags runFlags

	ctx := newCommandContext(&configFlag, &logFormatFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:   "keywordtagger [target]",
		Short: "Append TMDB keywords to movie NFO files",
		Long: "keywordtagger walks target (default: the current directory), finds movie NFO files\n" +
			"carrying an IMDb id, and appends any keywords TMDB knows about that the file\n" +
			"does not already list as <tag> elements.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}
			return runTagging(cmd, ctx, target, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format override (console|json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "List matching NFO files without modifying them")
	rootCmd.Flags().BoolVar(&flags.diff, "diff", false, "Print the keywords that would be added under each file")
	rootCmd.Flags().BoolVar(&flags.summary, "summary", false, "Print a summary table even when stdout is not a terminal")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
