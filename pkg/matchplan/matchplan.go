// Package matchplan holds the data types shared between the Match Engine
// (pkg/match) and the Match Cache (pkg/cache): the plan unit a match run
// produces and the small enums that govern how it gets executed. Splitting
// these out of pkg/match avoids an import cycle, since the cache needs to
// serialize MatchOperation without depending on the engine that builds it.
package matchplan

import (
	"time"

	"github.com/subx-cli/subx/pkg/core/discovery"
)

// RelocationMode controls whether and how a subtitle travels to sit beside
// its matched video (spec §3.6).
type RelocationMode string

const (
	RelocationNone RelocationMode = "None"
	RelocationCopy RelocationMode = "Copy"
	RelocationMove RelocationMode = "Move"
)

// ConflictResolution controls behavior when a planned destination path
// already exists (spec §4.7.2).
type ConflictResolution string

const (
	ConflictSkip       ConflictResolution = "Skip"
	ConflictAutoRename ConflictResolution = "AutoRename"
	ConflictPrompt     ConflictResolution = "Prompt"
)

// MatchOperation is the plan unit produced by the Match Engine for one
// accepted video/subtitle pairing (spec §3.6).
type MatchOperation struct {
	Video    discovery.MediaFile `toml:"video"`
	Subtitle discovery.MediaFile `toml:"subtitle"`

	NewSubtitleName       string         `toml:"new_subtitle_name"`
	RelocationMode        RelocationMode `toml:"relocation_mode"`
	RequiresRelocation    bool           `toml:"requires_relocation"`
	RelocationTargetPath  string         `toml:"relocation_target_path,omitempty"`

	Confidence float64  `toml:"confidence"`
	Reasoning  []string `toml:"reasoning,omitempty"`

	BackupEnabled bool `toml:"backup_enabled"`
}

// OperationStatus is the outcome of executing one MatchOperation.
type OperationStatus string

const (
	StatusPlanned OperationStatus = "Planned"
	StatusRenamed OperationStatus = "Renamed"
	StatusCopied  OperationStatus = "Copied"
	StatusMoved   OperationStatus = "Moved"
	StatusSkipped OperationStatus = "Skipped"
	StatusFailed  OperationStatus = "Failed"
)

// OperationResult pairs a MatchOperation with its execution outcome, for
// the per-operation report line (spec §4.7.4).
type OperationResult struct {
	Operation MatchOperation
	Status    OperationStatus
	Reason    string // populated on StatusFailed
}

// ReportLine renders the single observable line for one result. Renamed,
// Copied, Moved and Failed results use the four forms of spec §4.7.4;
// Skipped results render as "✗ Skipped: ..." and any other status as
// "• Planned: ...".
func (r OperationResult) ReportLine() string {
	src := r.Operation.Subtitle.AbsolutePath
	dst := r.destinationPath()

	switch r.Status {
	case StatusRenamed:
		return "✓ Renamed: " + src + " -> " + dst
	case StatusCopied:
		return "✓ Copied: " + src + " -> " + dst
	case StatusMoved:
		return "✓ Moved: " + src + " -> " + dst
	case StatusFailed:
		return "✗ " + string(r.verbForFailure()) + " failed: " + src + " -> " + dst + " (" + r.Reason + ")"
	case StatusSkipped:
		return "✗ Skipped: " + src + " -> " + dst + " (destination exists)"
	default:
		return "• Planned: " + src + " -> " + dst
	}
}

func (r OperationResult) verbForFailure() string {
	if r.Operation.RequiresRelocation {
		if r.Operation.RelocationMode == RelocationCopy {
			return "Copy"
		}
		return "Move"
	}
	return "Rename"
}

func (r OperationResult) destinationPath() string {
	if r.Operation.RelocationTargetPath != "" {
		return r.Operation.RelocationTargetPath
	}
	return r.Operation.NewSubtitleName
}

// Plan is the full output of one match run: ready either to be rendered
// (dry-run) or executed.
type Plan struct {
	Operations []MatchOperation
	ScanRoot   string
	CreatedAt  time.Time
}
