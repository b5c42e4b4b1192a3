package cmd

import (
	"github.com/spf13/viper"

	subx "github.com/subx-cli/subx"
)

// newClient builds a subx.Client from the resolved viper configuration
// (spec §6.2: the CLI layer owns config parsing, the engine never touches
// it directly).
func newClient() (*subx.Client, error) {
	return subx.NewClient(subx.Config{
		AIBaseURL:                   viper.GetString(CfgKeyAIBaseURL),
		AIAPIKey:                    viper.GetString(CfgKeyAIAPIKey),
		AIModel:                     viper.GetString(CfgKeyAIModel),
		DefaultCharset:              viper.GetString(CfgKeyFormatsDefaultEncoding),
		EncodingDetectionConfidence: viper.GetFloat64(CfgKeyFormatsEncodingConfidence),
		Logger:                      logger,
	})
}
