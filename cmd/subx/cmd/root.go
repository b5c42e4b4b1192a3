// Package cmd wires SubX's cobra commands to the subx library Client. Its
// config-file/env-var resolution (cobra.OnInitialize, viper.AddConfigPath,
// SetEnvPrefix) follows the teacher's cmd/cli/cmd/root.go, generalized from
// a single OpenSubtitles API key prompt into the full ai.*/formats.*/
// general.* surface spec §6.2 defines.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/subx-cli/subx/internal/constants"
)

// Configuration keys (spec §6.2).
const (
	CfgKeyAIProvider                = "ai.provider"
	CfgKeyAIModel                   = "ai.model"
	CfgKeyAIAPIKey                  = "ai.api_key"
	CfgKeyAIBaseURL                 = "ai.base_url"
	CfgKeyAIMaxSampleLength         = "ai.max_sample_length"
	CfgKeyFormatsDefaultOutput      = "formats.default_output"
	CfgKeyFormatsPreserveStyling    = "formats.preserve_styling"
	CfgKeyFormatsDefaultEncoding    = "formats.default_encoding"
	CfgKeyFormatsEncodingConfidence = "formats.encoding_detection_confidence"
	CfgKeyGeneralBackupEnabled      = "general.backup_enabled"
)

var (
	cfgFile string
	logger  = logrus.StandardLogger()

	// RootCmd is the base command. Exported so tests can invoke it directly.
	RootCmd = &cobra.Command{
		Use:   "subx",
		Short: "Match, rename, and convert subtitles alongside your videos.",
		Long: `subx pairs subtitle files with videos using an LLM oracle, renames or
relocates them into canonical positions, and converts between subtitle
formats while preserving or stripping styling.`,
	}
)

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "subx: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.subx/subx.yaml or ./subx.yaml)")

	setDefaults()

	RootCmd.AddCommand(matchCmd)
	RootCmd.AddCommand(convertCmd)
	RootCmd.AddCommand(detectEncodingCmd)
}

func setDefaults() {
	viper.SetDefault(CfgKeyAIMaxSampleLength, constants.DefaultMaxSampleLength)
	viper.SetDefault(CfgKeyFormatsDefaultEncoding, constants.DefaultCharset)
	viper.SetDefault(CfgKeyFormatsEncodingConfidence, constants.DefaultEncodingDetectionConfidence)
	viper.SetDefault(CfgKeyAIModel, constants.DefaultAIModelName)
}

// initConfig reads config file and env var overrides (spec §6.2: the
// engine never parses the config file itself, only the CLI layer does).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".subx"))
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "subx: error reading config file (%s): %v\n", viper.ConfigFileUsed(), err)
		}
	}
}
