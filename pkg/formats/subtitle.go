// Package formats is the Format Registry (spec §4.4): a pluggable,
// auto-detecting parser/serializer for SRT, ASS/SSA, WebVTT and MicroDVD
// SUB. The teacher has no subtitle-format code at all — every type and
// algorithm here is built fresh against spec §3.4-3.7 and §4.4, which is
// the whole point of this package being the core deliverable rather than
// a thin adaptation of teacher code.
package formats

import (
	"sort"
	"time"
)

// Format identifies one of the four supported subtitle formats.
type Format string

const (
	SRT     Format = "SRT"
	ASS     Format = "ASS"
	VTT     Format = "VTT"
	SUB     Format = "SUB"
	Unknown Format = "unknown"
)

// StyleInfo carries format-specific styling data opaquely through the
// pipeline (spec §3.7). Only the Cross-Format Transformer inspects its
// contents; the Format Registry treats it as a bag of fields owned by
// whichever parser populated it.
type StyleInfo struct {
	// SRT: raw inline tags are left in Entry.Text verbatim, so StyleInfo
	// is typically empty for SRT entries.

	// ASS: style name plus positional/override metadata.
	ASSStyleName string
	ASSMarginL   int
	ASSMarginR   int
	ASSMarginV   int
	ASSEffect    string

	// VTT: cue identifier and settings string (verbatim, after "-->").
	VTTCueID       string
	VTTCueSettings string

	// SUB: no native styling; present only to record that styling was
	// stripped during a lossy transform into this format.
	Stripped bool
}

// Entry is one timed subtitle unit (spec §3.4).
type Entry struct {
	Index     int
	Start     time.Duration
	End       time.Duration
	Text      string
	StyleTags StyleInfo
}

// ASSStyle is one named entry in an ASS/SSA "[V4+ Styles]" table.
type ASSStyle struct {
	Name    string
	Fields  map[string]string // raw Format: field -> value, e.g. "Fontname" -> "Arial"
}

// Metadata carries format-specific header/script fields (spec §3.5).
type Metadata struct {
	// ASS/SSA
	ScriptInfo map[string]string   // raw "[Script Info]" key/value pairs
	Styles     map[string]ASSStyle // keyed by style name
	Comments   []string            // raw "Comment:" event lines, preserved verbatim

	// VTT
	Notes   []string // raw NOTE blocks
	Styles_ []string // raw STYLE blocks (verbatim text)
	Regions []string // raw REGION blocks (verbatim text)

	// SUB
	FrameRate         float64 // effective frame rate used for frame<->time conversion
	FrameRateExplicit bool    // true if the source embedded a {1}{1}rate header
}

// Subtitle is the canonical in-memory representation produced by every
// parser and consumed by every serializer (spec §3.5).
type Subtitle struct {
	Entries      []Entry
	SourceFormat Format
	Metadata     Metadata
}

// Clone returns a deep copy, so callers (notably the transformer) can
// mutate the result without aliasing the original.
func (s Subtitle) Clone() Subtitle {
	out := Subtitle{
		SourceFormat: s.SourceFormat,
		Entries:      make([]Entry, len(s.Entries)),
	}
	copy(out.Entries, s.Entries)

	out.Metadata.FrameRate = s.Metadata.FrameRate
	out.Metadata.FrameRateExplicit = s.Metadata.FrameRateExplicit

	if s.Metadata.ScriptInfo != nil {
		out.Metadata.ScriptInfo = make(map[string]string, len(s.Metadata.ScriptInfo))
		for k, v := range s.Metadata.ScriptInfo {
			out.Metadata.ScriptInfo[k] = v
		}
	}
	if s.Metadata.Styles != nil {
		out.Metadata.Styles = make(map[string]ASSStyle, len(s.Metadata.Styles))
		for k, v := range s.Metadata.Styles {
			out.Metadata.Styles[k] = v
		}
	}
	out.Metadata.Comments = append([]string(nil), s.Metadata.Comments...)
	out.Metadata.Notes = append([]string(nil), s.Metadata.Notes...)
	out.Metadata.Styles_ = append([]string(nil), s.Metadata.Styles_...)
	out.Metadata.Regions = append([]string(nil), s.Metadata.Regions...)

	return out
}

// Renumber assigns sequential 1-based indices to every entry, in their
// current order. The SRT, ASS and SUB serializers call this unconditionally
// (spec §4.4.1: "Serializer renumbers index starting at 1"); the VTT
// serializer does not.
func (s *Subtitle) Renumber() {
	for i := range s.Entries {
		s.Entries[i].Index = i + 1
	}
}

// SortByStart reorders entries into monotonic non-decreasing start order
// (spec §3.5 invariant). The sort is stable so ties preserve parse order.
func (s *Subtitle) SortByStart() {
	sort.SliceStable(s.Entries, func(i, j int) bool {
		return s.Entries[i].Start < s.Entries[j].Start
	})
}
