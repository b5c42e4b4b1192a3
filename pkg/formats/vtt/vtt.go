// Package vtt implements the WebVTT (.vtt) codec (spec §4.4.3).
package vtt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/formats"
)

// Codec implements formats.Codec for WebVTT.
type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Name() string           { return "VTT" }
func (Codec) Extensions() []string   { return []string{"vtt"} }
func (Codec) Format() formats.Format { return formats.VTT }

var timeLineRe = regexp.MustCompile(
	`^\s*(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})(.*)$`)

// Detect requires the mandatory "WEBVTT" header (spec §4.4.3).
func (Codec) Detect(text string) bool {
	trimmed := strings.TrimSpace(strings.TrimPrefix(text, "\xef\xbb\xbf"))
	return strings.HasPrefix(trimmed, "WEBVTT")
}

// Parse converts WebVTT text into a Subtitle, preserving NOTE/STYLE/REGION
// blocks verbatim in Metadata and cue identifiers/settings in StyleInfo.
func (Codec) Parse(text string) (formats.Subtitle, []string, error) {
	text = strings.TrimPrefix(text, "\xef\xbb\xbf")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if !strings.HasPrefix(strings.TrimSpace(text), "WEBVTT") {
		return formats.Subtitle{}, nil, &coreerrors.SubtitleFormatError{
			Format: string(formats.VTT),
			Reason: "missing WEBVTT header",
		}
	}

	blocks := regexp.MustCompile(`\n\s*\n`).Split(text, -1)
	var warnings []string
	sub := formats.Subtitle{SourceFormat: formats.VTT}

	for bi, block := range blocks {
		lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			continue
		}

		if bi == 0 {
			// Header block: "WEBVTT" plus optional metadata lines, no cue here.
			continue
		}

		switch {
		case strings.HasPrefix(lines[0], "NOTE"):
			sub.Metadata.Notes = append(sub.Metadata.Notes, strings.Join(lines, "\n"))
			continue
		case strings.HasPrefix(lines[0], "STYLE"):
			sub.Metadata.Styles_ = append(sub.Metadata.Styles_, strings.Join(lines, "\n"))
			continue
		case strings.HasPrefix(lines[0], "REGION"):
			sub.Metadata.Regions = append(sub.Metadata.Regions, strings.Join(lines, "\n"))
			continue
		}

		cueID := ""
		timeLineIdx := 0
		if !timeLineRe.MatchString(lines[0]) {
			cueID = strings.TrimSpace(lines[0])
			timeLineIdx = 1
		}
		if timeLineIdx >= len(lines) || !timeLineRe.MatchString(lines[timeLineIdx]) {
			warnings = append(warnings, fmt.Sprintf("skipped cue with missing/garbled time line: %q", lines[0]))
			continue
		}

		m := timeLineRe.FindStringSubmatch(lines[timeLineIdx])
		start := parseVTTTime(m[1], m[2], m[3], m[4])
		end := parseVTTTime(m[5], m[6], m[7], m[8])
		settings := strings.TrimSpace(m[9])

		cueText := strings.Join(lines[timeLineIdx+1:], "\n")

		sub.Entries = append(sub.Entries, formats.Entry{
			Start: start,
			End:   end,
			Text:  cueText,
			StyleTags: formats.StyleInfo{
				VTTCueID:       cueID,
				VTTCueSettings: settings,
			},
		})
	}

	sub.SortByStart()
	return sub, warnings, nil
}

// Serialize renders a Subtitle as WebVTT text. Cue identifiers and settings
// recorded in StyleTags are carried over verbatim; entries originating from
// another format simply get no identifier/settings.
func (Codec) Serialize(sub formats.Subtitle) (string, error) {
	sub = sub.Clone()
	sub.SortByStart()

	var b strings.Builder
	b.WriteString("WEBVTT\n\n")

	for _, note := range sub.Metadata.Notes {
		b.WriteString(note)
		b.WriteString("\n\n")
	}
	for _, style := range sub.Metadata.Styles_ {
		b.WriteString(style)
		b.WriteString("\n\n")
	}
	for _, region := range sub.Metadata.Regions {
		b.WriteString(region)
		b.WriteString("\n\n")
	}

	for i, e := range sub.Entries {
		if e.StyleTags.VTTCueID != "" {
			fmt.Fprintf(&b, "%s\n", e.StyleTags.VTTCueID)
		}
		settings := e.StyleTags.VTTCueSettings
		if settings != "" {
			fmt.Fprintf(&b, "%s --> %s %s\n", formatVTTTime(e.Start), formatVTTTime(e.End), settings)
		} else {
			fmt.Fprintf(&b, "%s --> %s\n", formatVTTTime(e.Start), formatVTTTime(e.End))
		}
		b.WriteString(e.Text)
		b.WriteString("\n")
		if i < len(sub.Entries)-1 {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func parseVTTTime(hh, mm, ss, mmm string) time.Duration {
	h := 0
	if hh != "" {
		h, _ = strconv.Atoi(hh)
	}
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	ms, _ := strconv.Atoi(mmm)
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(ms)*time.Millisecond
}

func formatVTTTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
