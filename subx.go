// Package subx is the public entry point for the library (spec §6.1): a
// Client grouping the Match Engine, the Cross-Format Transformer/Converter
// and encoding detection behind three methods, MatchFiles/Convert/
// DetectEncoding. Its shape — a Config value, a constructor that resolves
// defaults and builds the internal collaborators, methods implemented in
// per-concern files alongside this one — follows the teacher's root
// Client/NewClient/auth.go/subtitles.go/features.go split.
package subx

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/subx-cli/subx/pkg/convert"
	"github.com/subx-cli/subx/pkg/match"
	"github.com/subx-cli/subx/pkg/oracle"
)

// Config holds the configuration for a subx Client (spec §6.2: the engine
// reads ai.provider/ai.model/ai.api_key/ai.base_url plus the formats.*
// fields; it never parses the config file itself, so the caller resolves
// all of this before calling NewClient).
type Config struct {
	// Provider is the AIProvider the match engine queries. If nil and
	// AIBaseURL is set, NewClient builds an HTTPProvider from
	// AIBaseURL/AIAPIKey/AIModel.
	Provider oracle.AIProvider

	AIBaseURL string
	AIAPIKey  string
	AIModel   string

	DefaultCharset              string
	EncodingDetectionConfidence float64

	Logger *logrus.Logger
}

// Client is the main SubX library client.
type Client struct {
	config    Config
	engine    *match.Engine
	converter *convert.Converter
	logger    *logrus.Logger
}

// NewClient builds a Client. A Provider must be reachable either directly
// (config.Provider) or via HTTP (config.AIBaseURL); everything else has
// workable zero-value defaults.
func NewClient(config Config) (*Client, error) {
	if config.Provider == nil && config.AIBaseURL == "" {
		return nil, errors.New("subx: either Config.Provider or Config.AIBaseURL is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	provider := config.Provider
	if provider == nil {
		provider = oracle.NewHTTPProvider(config.AIBaseURL, config.AIAPIKey, config.AIModel)
	}

	return &Client{
		config:    config,
		engine:    match.NewEngine(provider, logger),
		converter: convert.NewConverter(logger),
		logger:    logger,
	}, nil
}

// Provider returns the AIProvider the client was built with. The match
// engine already calls Verify itself on every accepted pairing when the
// provider implements Verifier (spec §4.6); this accessor exists for
// callers that want to probe or exercise the provider directly.
func (c *Client) Provider() oracle.AIProvider {
	return c.engine.Provider
}

func (c *Client) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("subx: "+format, args...)
}
