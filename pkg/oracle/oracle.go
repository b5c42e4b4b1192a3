// Package oracle defines the AIProvider contract (spec §4.6): the match
// engine's only dependency on an external LLM. This package pins the wire
// protocol; pkg/oracle/httpprovider.go supplies one concrete HTTP-based
// implementation of it, adapted from the teacher's REST client pattern.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
)

// VideoRecord and SubtitleRecord are the per-file records sent to the
// provider (spec §4.6). HTTPProvider sends them as JSON objects with
// FileID/Name/Path (and Preview) fields; nothing in this package renders
// them as "ID:<file_id> | Name:<stem> | Path:<relative_path>" text lines.
// Preview is an optional content sample, capped by the caller at
// ai.max_sample_length characters.
type VideoRecord struct {
	FileID string
	Name   string
	Path   string
}

type SubtitleRecord struct {
	FileID  string
	Name    string
	Path    string
	Preview string
}

// Match is one proposed pairing in a Response.
type Match struct {
	VideoFileID    string   `json:"video_file_id"`
	SubtitleFileID string   `json:"subtitle_file_id"`
	Confidence     float64  `json:"confidence"`
	MatchFactors   []string `json:"match_factors"`
}

// Response is the provider's reply shape (spec §4.6).
type Response struct {
	Matches           []Match `json:"matches"`
	OverallConfidence float64 `json:"overall_confidence"`
	Reasoning         string  `json:"reasoning"`
}

// Request is the outbound batch sent to a provider in one call (spec §4.6:
// "a minimum of one call is made; batching is permitted").
type Request struct {
	Videos    []VideoRecord    `json:"videos"`
	Subtitles []SubtitleRecord `json:"subtitles"`
}

// AIProvider is the engine's only dependency on an external LLM.
type AIProvider interface {
	Match(ctx context.Context, req Request) (Response, error)
}

// Verifier is an optional capability: a round-trip re-check of a single
// pairing. Its failure is non-fatal to the engine (spec §4.6).
type Verifier interface {
	Verify(ctx context.Context, videoFileID, subtitleFileID string) (confidence float64, err error)
}

// ParseResponse extracts a Response from raw provider output, tolerating
// surrounding prose (spec §4.6: "MUST tolerate responses embedded in
// surrounding text") and malformed JSON (spec §6.4: "MUST reject ill-formed
// JSON with a fallback to zero matches, not a fatal error").
func ParseResponse(raw []byte) Response {
	start := bytes.IndexByte(raw, '{')
	end := bytes.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return Response{}
	}

	var resp Response
	if err := json.Unmarshal(raw[start:end+1], &resp); err != nil {
		return Response{}
	}

	for i := range resp.Matches {
		c := resp.Matches[i].Confidence
		if c < 0 {
			c = 0
		} else if c > 1 {
			c = 1
		}
		resp.Matches[i].Confidence = c
	}
	return resp
}
