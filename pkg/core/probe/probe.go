// Package probe supplies optional, best-effort enrichment factors for a
// matched video/subtitle pair: media duration via an external mediainfo
// binary, and any IMDb id embedded in a sibling NFO file. Neither factor
// ever blocks or changes a match decision (SPEC_FULL.md §C.2/§C.3). A
// missing mediainfo binary makes MediaInfo return an error, which the match
// engine treats as "no factor" without logging anything.
package probe

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	mediainfo "github.com/dreamCodeMan/go-mediainfo"
)

// MediaInfo runs the mediainfo CLI tool via go-mediainfo and returns its
// structured track information. Requires the mediainfo binary on PATH; if
// it is absent, MediaInfo returns an error.
func MediaInfo(ctx context.Context, filePath string) (*mediainfo.MediaInfo, error) {
	_ = ctx

	info, err := mediainfo.GetMediaInfo(filePath)
	if err != nil {
		if strings.Contains(err.Error(), "executable file not found") || strings.Contains(err.Error(), "LookPath") {
			return nil, fmt.Errorf("probe: mediainfo binary not found in PATH: %w", err)
		}
		return nil, fmt.Errorf("probe: mediainfo failed for %q: %w", filePath, err)
	}
	return &info, nil
}

var imdbIDRegex = regexp.MustCompile(`(tt[0-9]{7,})`)

// NFOIMDbID reads a sibling .nfo file, if present, and returns the first
// IMDb id found in it. A missing file is not an error: it returns "", nil.
func NFOIMDbID(ctx context.Context, nfoPath string) (string, error) {
	_ = ctx

	if _, err := os.Stat(nfoPath); os.IsNotExist(err) {
		return "", nil
	}

	content, err := os.ReadFile(nfoPath)
	if err != nil {
		return "", fmt.Errorf("probe: read NFO %q: %w", nfoPath, err)
	}

	if m := imdbIDRegex.FindStringSubmatch(string(content)); len(m) > 1 {
		return m[1], nil
	}
	return "", nil
}
