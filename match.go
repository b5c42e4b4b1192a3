package subx

import (
	"context"

	"github.com/subx-cli/subx/pkg/match"
	"github.com/subx-cli/subx/pkg/matchplan"
)

// MatchOptions mirrors the match_files parameter list (spec §6.1).
type MatchOptions struct {
	Recursive           bool
	ConfidenceThreshold float64
	RelocationMode      matchplan.RelocationMode
	ConflictResolution  matchplan.ConflictResolution
	BackupEnabled       bool
	DryRun              bool
	MaxSampleLength     int

	// EnableContentAnalysis toggles whether subtitle content is sampled
	// for the oracle at all. When false, MaxSampleLength is treated as 0
	// regardless of its value.
	EnableContentAnalysis bool

	NoCache   bool
	CachePath string
}

// MatchFiles runs one match invocation against rootPath (spec §6.1:
// match_files). It is a thin translation from the public MatchOptions
// shape into the engine's internal match.Config plus the call itself.
func (c *Client) MatchFiles(ctx context.Context, rootPath string, opts MatchOptions) (*match.Result, error) {
	maxSample := opts.MaxSampleLength
	if !opts.EnableContentAnalysis {
		maxSample = 0
	}

	cfg := match.Config{
		Recursive:                   opts.Recursive,
		ConfidenceThreshold:         opts.ConfidenceThreshold,
		AIModelName:                 c.config.AIModel,
		RelocationMode:              opts.RelocationMode,
		ConflictResolution:          opts.ConflictResolution,
		BackupEnabled:               opts.BackupEnabled,
		MaxSampleLength:             maxSample,
		DefaultCharset:              c.config.DefaultCharset,
		EncodingDetectionConfidence: c.config.EncodingDetectionConfidence,
		NoCache:                     opts.NoCache,
		CachePath:                   opts.CachePath,
		DryRun:                      opts.DryRun,
	}

	result, err := c.engine.Run(ctx, rootPath, cfg)
	if err != nil {
		return nil, c.errorf("match_files: %w", err)
	}
	return result, nil
}
