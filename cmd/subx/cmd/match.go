package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	subx "github.com/subx-cli/subx"
	"github.com/subx-cli/subx/internal/constants"
	"github.com/subx-cli/subx/pkg/matchplan"
)

var (
	matchRecursive       bool
	matchConfidence      float64
	matchRelocation      string
	matchConflict        string
	matchBackup          bool
	matchDryRun          bool
	matchMaxSampleLength int
	matchEnableContent   bool
	matchNoCache         bool
	matchCachePath       string
)

var matchCmd = &cobra.Command{
	Use:   "match [root path]",
	Short: "Pair subtitles with videos under root path and apply the resulting plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		result, err := client.MatchFiles(context.Background(), args[0], subx.MatchOptions{
			Recursive:             matchRecursive,
			ConfidenceThreshold:   matchConfidence,
			RelocationMode:        matchplan.RelocationMode(matchRelocation),
			ConflictResolution:    matchplan.ConflictResolution(matchConflict),
			BackupEnabled:         matchBackup,
			DryRun:                matchDryRun,
			MaxSampleLength:       matchMaxSampleLength,
			EnableContentAnalysis: matchEnableContent,
			NoCache:               matchNoCache,
			CachePath:             matchCachePath,
		})
		if err != nil {
			return err
		}

		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		for _, line := range result.ReportLog {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		if matchDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%d operation(s) planned (dry run, nothing executed)\n", len(result.Plan.Operations))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().BoolVarP(&matchRecursive, "recursive", "r", true, "scan subdirectories")
	matchCmd.Flags().Float64Var(&matchConfidence, "confidence-threshold", constants.DefaultConfidenceThreshold, "minimum oracle confidence to accept a match")
	matchCmd.Flags().StringVar(&matchRelocation, "relocation-mode", string(matchplan.RelocationNone), "None, Copy, or Move")
	matchCmd.Flags().StringVar(&matchConflict, "conflict-resolution", string(matchplan.ConflictAutoRename), "Skip, AutoRename, or Prompt")
	matchCmd.Flags().BoolVar(&matchBackup, "backup", false, "back up a destination file before overwriting it")
	matchCmd.Flags().BoolVar(&matchDryRun, "dry-run", false, "plan operations without executing them")
	matchCmd.Flags().IntVar(&matchMaxSampleLength, "max-sample-length", constants.DefaultMaxSampleLength, "decoded runes of subtitle content sent to the oracle as a preview")
	matchCmd.Flags().BoolVar(&matchEnableContent, "enable-content-analysis", true, "sample subtitle content for the oracle preview")
	matchCmd.Flags().BoolVar(&matchNoCache, "no-cache", false, "ignore and do not write the match cache")
	matchCmd.Flags().StringVar(&matchCachePath, "cache-path", "", "override the cache file path")

	viper.BindPFlag(CfgKeyAIMaxSampleLength, matchCmd.Flags().Lookup("max-sample-length"))
	viper.BindPFlag(CfgKeyGeneralBackupEnabled, matchCmd.Flags().Lookup("backup"))
}
