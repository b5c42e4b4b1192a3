package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var detectEncodingThreshold float64

var detectEncodingCmd = &cobra.Command{
	Use:   "detect-encoding [input path]",
	Short: "Report the detected character encoding of a subtitle file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		threshold := detectEncodingThreshold
		if threshold == 0 {
			threshold = viper.GetFloat64(CfgKeyFormatsEncodingConfidence)
		}
		defaultCharset := viper.GetString(CfgKeyFormatsDefaultEncoding)

		report, err := client.DetectEncoding(args[0], threshold, defaultCharset)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence %.2f)\n", report.Charset, report.Confidence)
		return nil
	},
}

func init() {
	detectEncodingCmd.Flags().Float64Var(&detectEncodingThreshold, "threshold", 0, "minimum detector confidence before falling back to the default charset")
}
