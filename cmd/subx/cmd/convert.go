package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subx-cli/subx/pkg/formats"
)

var (
	convertTargetFormat    string
	convertPreserveStyling bool
	convertOutputPath      string
)

var convertCmd = &cobra.Command{
	Use:   "convert [input path]",
	Short: "Convert a subtitle file to a different format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		target := formats.Format(convertTargetFormat)
		outputPath := convertOutputPath
		if outputPath == "" {
			outputPath = viper.GetString(CfgKeyFormatsDefaultOutput)
		}

		report, err := client.Convert(args[0], target, convertPreserveStyling, outputPath)
		if err != nil {
			return err
		}

		for _, w := range report.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
		}
		if report.OutputPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s -> %s)\n", report.OutputPath, report.SourceFormat, report.TargetFormat)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), report.Output)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertTargetFormat, "to", "t", "", "target format: SRT, ASS, VTT, or SUB")
	convertCmd.MarkFlagRequired("to")
	convertCmd.Flags().BoolVar(&convertPreserveStyling, "preserve-styling", false, "best-effort translate inline styling instead of stripping it")
	convertCmd.Flags().StringVarP(&convertOutputPath, "output", "o", "", "output file path (default: formats.default_output if set, else print to stdout)")

	viper.BindPFlag(CfgKeyFormatsPreserveStyling, convertCmd.Flags().Lookup("preserve-styling"))
}
