// Package match implements the Match Engine (spec §4.7): the orchestrator
// that turns a directory of videos and subtitles into a plan of rename/
// copy/move operations, using the LLM oracle to decide which subtitle goes
// with which video. Its shape — a struct holding injected collaborators,
// one top-level Run method, ctx threaded through every suspension point —
// follows the teacher's pkg/processor.Processor, generalized from a
// fixed-purpose upload-job builder into the full discover/cache/sample/
// query/filter/plan/execute state machine spec §4.7 describes.
package match

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/subx-cli/subx/pkg/cache"
	"github.com/subx-cli/subx/pkg/core/discovery"
	"github.com/subx-cli/subx/pkg/core/encoding"
	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/core/probe"
	"github.com/subx-cli/subx/pkg/core/releaseinfo"
	"github.com/subx-cli/subx/pkg/fsops"
	"github.com/subx-cli/subx/pkg/matchplan"
	"github.com/subx-cli/subx/pkg/oracle"
)

// Config configures one Run invocation. It mirrors the configuration
// surface spec §6.3 says the engine reads (it never parses the config
// file itself — the caller hands it these resolved values).
type Config struct {
	Recursive bool

	ConfidenceThreshold float64
	AIModelName         string

	RelocationMode     matchplan.RelocationMode
	ConflictResolution matchplan.ConflictResolution
	BackupEnabled      bool

	MaxSampleLength int // 0 disables content preview sampling

	DefaultCharset              string
	EncodingDetectionConfidence float64

	NoCache   bool
	CachePath string // override for cache.PathForRoot(scanRoot); "" uses the default

	DryRun bool
}

// Result is the outcome of one Run.
type Result struct {
	Plan      matchplan.Plan
	Results   []matchplan.OperationResult // empty for a dry run
	Warnings  []string
	CacheHit  bool
	ReportLog []string // one line per executed operation, spec §4.7.4
}

// Engine orchestrates one match run against a scan root.
type Engine struct {
	Provider oracle.AIProvider
	logger   *logrus.Logger
}

// NewEngine builds an Engine. If logger is nil, the package-default logrus
// logger is used (teacher convention).
func NewEngine(provider oracle.AIProvider, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{Provider: provider, logger: logger}
}

// Run executes one match invocation (spec §4.7).
func (e *Engine) Run(ctx context.Context, scanRoot string, cfg Config) (*Result, error) {
	scanResult, err := discovery.Scan(ctx, scanRoot, discovery.Options{Recursive: cfg.Recursive})
	if err != nil {
		return nil, err
	}

	var videos, subtitles []discovery.MediaFile
	for _, f := range scanResult.Files {
		if f.Kind == discovery.Video {
			videos = append(videos, f)
		} else {
			subtitles = append(subtitles, f)
		}
	}

	result := &Result{Plan: matchplan.Plan{ScanRoot: scanRoot}}
	for _, w := range scanResult.Warnings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %s", w.Path, w.Reason))
	}

	if len(videos) == 0 || len(subtitles) == 0 {
		return result, nil
	}

	videoByID := indexByID(videos)
	subtitleByID := indexByID(subtitles)

	cachePath := cfg.CachePath
	if cachePath == "" {
		cachePath = cache.PathForRoot(scanRoot)
	}
	store := cache.NewStore(cachePath, e.logger)

	fingerprint := cache.Fingerprint{
		DiscoveredFileIDs:   allIDs(videos, subtitles),
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		AIModelName:         cfg.AIModelName,
	}

	var operations []matchplan.MatchOperation

	var entry *cache.Entry
	if !cfg.NoCache {
		entry, err = store.Load()
		if err != nil {
			return nil, err
		}
	}

	if entry.Hit(fingerprint) {
		result.CacheHit = true
		operations = e.replan(entry.Operations, videoByID, subtitleByID, cfg)
	} else {
		operations, err = e.sampleQueryFilterPlan(ctx, videos, subtitles, videoByID, subtitleByID, cfg, result)
		if err != nil {
			return nil, err
		}
	}

	result.Plan.Operations = operations
	result.Plan.CreatedAt = now()

	if cfg.DryRun {
		if !cfg.NoCache {
			if err := e.writeCache(store, operations, fingerprint, scanRoot, cfg); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	result.Results = e.execute(operations, cfg.ConflictResolution)
	for _, r := range result.Results {
		result.ReportLog = append(result.ReportLog, r.ReportLine())
	}

	if !cfg.NoCache {
		if err := e.writeCache(store, operations, fingerprint, scanRoot, cfg); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func now() time.Time { return time.Now().UTC() }

func indexByID(files []discovery.MediaFile) map[string]discovery.MediaFile {
	m := make(map[string]discovery.MediaFile, len(files))
	for _, f := range files {
		m[f.ID] = f
	}
	return m
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func allIDs(videos, subtitles []discovery.MediaFile) []string {
	ids := make([]string, 0, len(videos)+len(subtitles))
	for _, f := range videos {
		ids = append(ids, f.ID)
	}
	for _, f := range subtitles {
		ids = append(ids, f.ID)
	}
	return ids
}

// replan re-derives requires_relocation/relocation_target_path from the
// current flags for a cached plan, never trusting the stored fields (spec
// §4.7 step 2).
func (e *Engine) replan(cached []matchplan.MatchOperation, videoByID, subtitleByID map[string]discovery.MediaFile, cfg Config) []matchplan.MatchOperation {
	out := make([]matchplan.MatchOperation, 0, len(cached))
	for _, op := range cached {
		video, vok := videoByID[op.Video.ID]
		subtitle, sok := subtitleByID[op.Subtitle.ID]
		if !vok || !sok {
			continue
		}
		out = append(out, buildOperation(video, subtitle, op.Confidence, op.Reasoning, cfg))
	}
	return out
}

func (e *Engine) sampleQueryFilterPlan(
	ctx context.Context,
	videos, subtitles []discovery.MediaFile,
	videoByID, subtitleByID map[string]discovery.MediaFile,
	cfg Config,
	result *Result,
) ([]matchplan.MatchOperation, error) {
	videoRecords := make([]oracle.VideoRecord, 0, len(videos))
	for _, v := range videos {
		videoRecords = append(videoRecords, oracle.VideoRecord{FileID: v.ID, Name: v.Name, Path: v.RelativePath})
	}

	subtitleRecords := make([]oracle.SubtitleRecord, 0, len(subtitles))
	for _, s := range subtitles {
		preview := ""
		if cfg.MaxSampleLength > 0 {
			preview = e.sample(s, cfg)
		}
		subtitleRecords = append(subtitleRecords, oracle.SubtitleRecord{
			FileID: s.ID, Name: s.Name, Path: s.RelativePath, Preview: preview,
		})
	}

	resp, err := e.Provider.Match(ctx, oracle.Request{Videos: videoRecords, Subtitles: subtitleRecords})
	if err != nil {
		if ctx.Err() != nil {
			resp = oracle.Response{}
		} else {
			return nil, &coreerrors.AIServiceError{Reason: "querying provider", Cause: err}
		}
	}

	filtered := e.filter(resp.Matches, videoByID, subtitleByID, cfg.ConfidenceThreshold, result)

	operations := make([]matchplan.MatchOperation, 0, len(filtered))
	for _, m := range filtered {
		op := buildOperation(videoByID[m.VideoFileID], subtitleByID[m.SubtitleFileID], m.Confidence, m.MatchFactors, cfg)

		if cfg.MaxSampleLength > 0 {
			if factor := e.probeDurationFactor(ctx, op.Video); factor != "" {
				op.Reasoning = append(op.Reasoning, factor)
			}
		}

		e.verify(ctx, &op)

		operations = append(operations, op)
	}
	return operations, nil
}

// probeDurationFactor attaches an optional duration-consistency diagnostic
// via the mediainfo CLI (SPEC_FULL.md §C.2). A missing binary or probe
// failure degrades to silence, matching fileops.GetMediaInfo's own
// fallback behavior — it is never fatal to the match.
func (e *Engine) probeDurationFactor(ctx context.Context, video discovery.MediaFile) string {
	info, err := probe.MediaInfo(ctx, video.AbsolutePath)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("duration-consistency: %v", info)
}

// verify re-checks an accepted pairing through the provider's optional
// Verifier capability (spec §4.6), folding the round-tripped confidence in
// as min(original, verified) and noting the round trip in op.Reasoning.
// A transport error is non-fatal: op keeps its original confidence.
func (e *Engine) verify(ctx context.Context, op *matchplan.MatchOperation) {
	verifier, ok := e.Provider.(oracle.Verifier)
	if !ok {
		return
	}

	verified, err := verifier.Verify(ctx, op.Video.ID, op.Subtitle.ID)
	if err != nil {
		return
	}

	if verified < op.Confidence {
		op.Confidence = verified
	}
	op.Reasoning = append(op.Reasoning, fmt.Sprintf("verify round-trip: %.2f", verified))
}

// sample reads up to cfg.MaxSampleLength decoded characters of a subtitle
// file for the LLM preview (spec §4.7 step 3). A read error yields no
// preview rather than aborting the run.
func (e *Engine) sample(s discovery.MediaFile, cfg Config) string {
	data, err := os.ReadFile(s.AbsolutePath)
	if err != nil {
		e.logger.Warnf("match: could not read %s for preview: %v", s.AbsolutePath, err)
		return ""
	}

	detected := encoding.Detect(data, cfg.EncodingDetectionConfidence, cfg.DefaultCharset)
	text, err := encoding.Decode(data, detected.Charset)
	if err != nil {
		return ""
	}

	r := []rune(text)
	if len(r) > cfg.MaxSampleLength {
		r = r[:cfg.MaxSampleLength]
	}
	return string(r)
}

// filter drops low-confidence and unknown-id matches, resolves duplicate
// subtitle ids by keeping the highest-confidence pairing, and orders the
// survivors by confidence descending then (video_id, subtitle_id)
// lexicographically for ties (spec §4.7 step 5, §5 ordering guarantees).
func (e *Engine) filter(
	matches []oracle.Match,
	videoByID, subtitleByID map[string]discovery.MediaFile,
	threshold float64,
	result *Result,
) []oracle.Match {
	bestForSubtitle := make(map[string]oracle.Match)
	var order []string

	for _, m := range matches {
		if m.Confidence < threshold {
			continue
		}
		if _, ok := videoByID[m.VideoFileID]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("match: unknown video id %q discarded", m.VideoFileID))
			continue
		}
		if _, ok := subtitleByID[m.SubtitleFileID]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("match: unknown subtitle id %q discarded", m.SubtitleFileID))
			continue
		}

		existing, seen := bestForSubtitle[m.SubtitleFileID]
		if !seen {
			order = append(order, m.SubtitleFileID)
			bestForSubtitle[m.SubtitleFileID] = m
			continue
		}
		if m.Confidence > existing.Confidence {
			bestForSubtitle[m.SubtitleFileID] = m
		}
	}

	out := make([]oracle.Match, 0, len(order))
	for _, id := range order {
		out = append(out, bestForSubtitle[id])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		if out[i].VideoFileID != out[j].VideoFileID {
			return out[i].VideoFileID < out[j].VideoFileID
		}
		return out[i].SubtitleFileID < out[j].SubtitleFileID
	})
	return out
}

// seasonEpisodeFactor compares release-info parsed independently from the
// video and subtitle filenames and renders a diagnostic agreement note
// (SPEC_FULL.md §C.1). It never affects confidence or the accept/reject
// decision — pure annotation, silent when either filename carries no
// season/episode information to compare.
func seasonEpisodeFactor(video, subtitle discovery.MediaFile) string {
	v := releaseinfo.Parse(video.Name)
	s := releaseinfo.Parse(subtitle.Name)
	if (v.Season == 0 && v.Episode == 0) || (s.Season == 0 && s.Episode == 0) {
		return ""
	}
	if v.Season == s.Season && v.Episode == s.Episode {
		return fmt.Sprintf("season/episode agree (S%02dE%02d)", v.Season, v.Episode)
	}
	return "season/episode mismatch"
}

// buildOperation constructs a MatchOperation per spec §4.7 step 6.
func buildOperation(video, subtitle discovery.MediaFile, confidence float64, reasoning []string, cfg Config) matchplan.MatchOperation {
	reasoning = append([]string(nil), reasoning...)
	if factor := seasonEpisodeFactor(video, subtitle); factor != "" && !containsString(reasoning, factor) {
		reasoning = append(reasoning, factor)
	}

	langSuffix := ""
	if subtitle.Language != nil && subtitle.Language.PrimaryCode != "" {
		langSuffix = "." + subtitle.Language.PrimaryCode
	}
	newName := video.Name + langSuffix + "." + subtitle.Extension

	requiresRelocation := cfg.RelocationMode != matchplan.RelocationNone && subtitle.ParentDir() != video.ParentDir()

	var target string
	if requiresRelocation {
		target = filepath.Join(video.ParentDir(), newName)
	} else {
		target = filepath.Join(subtitle.ParentDir(), newName)
	}

	return matchplan.MatchOperation{
		Video:                  video,
		Subtitle:               subtitle,
		NewSubtitleName:        newName,
		RelocationMode:         cfg.RelocationMode,
		RequiresRelocation:     requiresRelocation,
		RelocationTargetPath:   target,
		Confidence:             confidence,
		Reasoning:              reasoning,
		BackupEnabled:          cfg.BackupEnabled,
	}
}

func (e *Engine) writeCache(store *cache.Store, operations []matchplan.MatchOperation, fp cache.Fingerprint, scanRoot string, cfg Config) error {
	return store.Save(cache.Entry{
		ScanRoot:               scanRoot,
		CreatedAt:              now(),
		DiscoveredFileIDs:      fp.DiscoveredFileIDs,
		ConfidenceThreshold:    fp.ConfidenceThreshold,
		AIModelName:            fp.AIModelName,
		OriginalRelocationMode: string(cfg.RelocationMode),
		OriginalBackupEnabled:  cfg.BackupEnabled,
		Operations:             operations,
	})
}
