// Package discovery walks a directory tree and classifies every file it
// finds as a video or a subtitle (spec §4.1), grounded on the teacher's
// pkg/processor.ScanDirectory (filepath.WalkDir plus an extension-set
// classifier) generalized to produce the richer MediaFile value spec §3.1
// calls for instead of a bare path list.
package discovery

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/core/fileid"
	"github.com/subx-cli/subx/pkg/core/language"
	"github.com/subx-cli/subx/pkg/core/probe"
)

// Kind classifies a discovered file.
type Kind int

const (
	Video Kind = iota
	Subtitle
)

func (k Kind) String() string {
	if k == Video {
		return "video"
	}
	return "subtitle"
}

// MediaFile is a discovered video or subtitle file (spec §3.1).
type MediaFile struct {
	ID           string
	AbsolutePath string
	RelativePath string
	Name         string // stem, no extension
	Extension    string // lowercase, no dot
	SizeBytes    int64
	Kind         Kind
	Language     *language.Info

	// IMDbID is a pure passthrough: the first tt\d{7,} id found in a
	// sibling <stem>.nfo file, if a video has one (SPEC_FULL.md §C.3). It
	// is "" whenever no such file or id exists; no engine behavior reads it.
	IMDbID string
}

// ParentDir returns the directory containing the file, as an absolute path.
func (f MediaFile) ParentDir() string {
	return filepath.Dir(f.AbsolutePath)
}

// ExtensionSet is a case-insensitive set of file extensions (no leading dot).
type ExtensionSet map[string]bool

// DefaultVideoExtensions is the default video extension set (spec §4.1).
func DefaultVideoExtensions() ExtensionSet {
	return newExtSet("mp4", "mkv", "avi", "mov", "wmv", "flv", "m4v", "webm")
}

// DefaultSubtitleExtensions is the default subtitle extension set (spec §4.1).
func DefaultSubtitleExtensions() ExtensionSet {
	return newExtSet("srt", "ass", "ssa", "vtt", "sub", "idx")
}

func newExtSet(exts ...string) ExtensionSet {
	s := make(ExtensionSet, len(exts))
	for _, e := range exts {
		s[e] = true
	}
	return s
}

// Warning is a non-fatal issue encountered while scanning (spec §4.1:
// "individual unreadable files are reported as warnings; the scan
// continues").
type Warning struct {
	Path   string
	Reason string
}

// Options configures a scan.
type Options struct {
	Recursive          bool
	VideoExtensions    ExtensionSet
	SubtitleExtensions ExtensionSet
}

// Result is the output of a scan.
type Result struct {
	Files    []MediaFile
	Warnings []Warning
}

// Scan walks root and classifies every file whose extension is in either
// configured extension set. Depth is 1 when Recursive is false, unlimited
// otherwise. Output order is deterministic: lexicographic by RelativePath
// (spec §4.1, "so that downstream hashes and LLM prompts are reproducible").
// ctx bounds the best-effort NFO IMDb-id sidecar lookup for video files
// (SPEC_FULL.md §C.3); a missing or unreadable NFO is not an error.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	if opts.VideoExtensions == nil {
		opts.VideoExtensions = DefaultVideoExtensions()
	}
	if opts.SubtitleExtensions == nil {
		opts.SubtitleExtensions = DefaultSubtitleExtensions()
	}

	info, statErr := os.Stat(root)
	if statErr != nil || !info.IsDir() {
		return nil, coreerrors.ErrFileNotFound
	}

	res := &Result{}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			res.Warnings = append(res.Warnings, Warning{Path: p, Reason: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p == root {
				return nil
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), "."))
		var kind Kind
		switch {
		case opts.VideoExtensions[ext]:
			kind = Video
		case opts.SubtitleExtensions[ext]:
			kind = Subtitle
		default:
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			res.Warnings = append(res.Warnings, Warning{Path: p, Reason: statErr.Error()})
			return nil
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			res.Warnings = append(res.Warnings, Warning{Path: p, Reason: relErr.Error()})
			return nil
		}
		rel = filepath.ToSlash(rel)

		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))

		mf := MediaFile{
			AbsolutePath: p,
			RelativePath: rel,
			Name:         name,
			Extension:    ext,
			SizeBytes:    fi.Size(),
			Kind:         kind,
			Language:     language.Detect(rel),
		}
		mf.ID = fileid.Compute(mf.RelativePath, mf.SizeBytes)

		if kind == Video {
			nfoPath := filepath.Join(filepath.Dir(p), name+".nfo")
			if id, err := probe.NFOIMDbID(ctx, nfoPath); err == nil {
				mf.IMDbID = id
			}
		}

		res.Files = append(res.Files, mf)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].RelativePath < res.Files[j].RelativePath
	})

	return res, nil
}
