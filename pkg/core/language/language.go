// Package language extracts language tags from file paths (spec §4.2).
// It is grounded on the teacher's pkg/core/metadata languagesDB table —
// generalized from an OpenSubtitles-code lookup into the closed directory
// token table spec.md §3.3 calls for.
package language

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Source records where a language tag was found.
type Source string

const (
	SourceDirectory Source = "directory"
	SourceFilename  Source = "filename"
)

// Info is the detected language for a file (spec §3.3).
type Info struct {
	PrimaryCode string
	Sources     []Source
}

// directoryTokens is the closed table of canonical directory names that
// count as a language match when they appear as a whole path segment.
var directoryTokens = map[string]bool{
	"tc": true, "sc": true, "en": true, "ja": true, "ko": true,
	"zh-tw": true, "zh-cn": true, "zh": true, "fr": true, "de": true,
	"es": true, "it": true, "pt": true, "pt-br": true, "ru": true,
	"ar": true, "th": true, "vi": true, "id": true, "nl": true,
	"pl": true, "tr": true, "sv": true, "da": true, "fi": true,
	"no": true, "he": true, "hi": true, "cht": true, "chs": true,
}

// filenameRegex matches a `.<code>.` segment in a stem, e.g. "movie.tc.srt"
// sniffs "tc" out of the basename before the extension is stripped.
var filenameRegex = regexp.MustCompile(`(?i)\.([a-z]{2}(?:-[a-z]{2})?)\.`)

// Detect extracts language tags from relativePath (forward-slash separated,
// as produced by discovery.Scan). It returns nil if no tag matched
// anywhere in the path.
func Detect(relativePath string) *Info {
	var dirMatches, fileMatches []string

	segments := strings.Split(relativePath, "/")
	for i, seg := range segments {
		lower := strings.ToLower(seg)
		if i == len(segments)-1 {
			// Last segment is the filename; directory tokens only apply
			// to segments that are actual directories.
			continue
		}
		if directoryTokens[lower] {
			dirMatches = append(dirMatches, lower)
		}
	}

	filename := segments[len(segments)-1]
	for _, m := range filenameRegex.FindAllStringSubmatch(filename, -1) {
		fileMatches = append(fileMatches, strings.ToLower(m[1]))
	}

	dirMatches = dedupeSorted(dirMatches)
	fileMatches = dedupeSorted(fileMatches)

	if len(dirMatches) == 0 && len(fileMatches) == 0 {
		return nil
	}

	info := &Info{}
	if len(fileMatches) > 0 {
		info.PrimaryCode = fileMatches[0]
		info.Sources = append(info.Sources, SourceFilename)
	} else {
		info.PrimaryCode = dirMatches[0]
	}
	if len(dirMatches) > 0 {
		info.Sources = append(info.Sources, SourceDirectory)
	}
	return info
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Base returns the filename's stem (no extension), used by callers that
// need to combine language detection with name construction.
func Base(name string) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext)
}
