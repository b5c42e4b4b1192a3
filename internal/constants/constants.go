// Package constants holds the default values the CLI layer falls back to
// when a config file, environment variable, or flag does not set one
// (spec §6.2).
package constants

const (
	// ConfigFileName is the base name Viper searches for (without
	// extension), following the teacher's cobra.OnInitialize pattern.
	ConfigFileName = "subx"

	// EnvPrefix is the prefix Viper expects on environment variable
	// overrides, e.g. SUBX_AI_API_KEY.
	EnvPrefix = "SUBX"

	// DefaultConfidenceThreshold is the minimum oracle confidence a match
	// must clear to survive filtering (spec §4.7 step 5).
	DefaultConfidenceThreshold = 0.6

	// DefaultMaxSampleLength bounds how many decoded runes of a subtitle
	// file are sent to the oracle as a content preview (spec §4.7 step 3).
	DefaultMaxSampleLength = 500

	// DefaultEncodingDetectionConfidence is the minimum statistical
	// detector confidence before falling back to DefaultCharset (spec
	// §4.3).
	DefaultEncodingDetectionConfidence = 0.5

	// DefaultCharset is used when encoding detection falls back (spec
	// §4.3).
	DefaultCharset = "UTF-8"

	// DefaultAIModelName is passed to the oracle when no model is
	// configured.
	DefaultAIModelName = "default"
)
