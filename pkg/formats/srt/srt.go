// Package srt implements the SubRip (.srt) codec (spec §4.4.1).
package srt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/subx-cli/subx/pkg/formats"
)

// Codec implements formats.Codec for SubRip.
type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Name() string          { return "SRT" }
func (Codec) Extensions() []string  { return []string{"srt"} }
func (Codec) Format() formats.Format { return formats.SRT }

var timeLineRe = regexp.MustCompile(
	`(?m)^\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// Detect reports whether text contains at least one comma-delimited SRT
// timing line. Tried after ASS and VTT, whose headers are more
// distinctive, so a bare timing line is sufficient evidence here.
func (Codec) Detect(text string) bool {
	return timeLineRe.MatchString(text)
}

// Parse converts SRT text into a Subtitle. Blocks with a missing or
// garbled time line are skipped (not fatal) and recorded as a warning
// (spec §4.4.1).
func (c Codec) Parse(text string) (formats.Subtitle, []string, error) {
	text = strings.TrimPrefix(text, "\xef\xbb\xbf")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	blocks := splitBlocks(text)

	var warnings []string
	sub := formats.Subtitle{SourceFormat: formats.SRT}

	for _, block := range blocks {
		lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
		// Trim leading blank lines within a block.
		for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
			lines = lines[1:]
		}
		if len(lines) == 0 {
			continue
		}

		idx := 0
		timeLineIdx := 0
		// The index line is optional-ish in malformed input; tolerate its
		// absence by searching the first two lines for the time line.
		if timeLineRe.MatchString(lines[0]) {
			timeLineIdx = 0
		} else if len(lines) > 1 && timeLineRe.MatchString(lines[1]) {
			if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
				idx = n
			}
			timeLineIdx = 1
		} else {
			warnings = append(warnings, fmt.Sprintf("skipped block with missing/garbled time line: %q", firstLine(block)))
			continue
		}

		m := timeLineRe.FindStringSubmatch(lines[timeLineIdx])
		start := parseSRTTime(m[1], m[2], m[3], m[4])
		end := parseSRTTime(m[5], m[6], m[7], m[8])
		if end < start {
			warnings = append(warnings, fmt.Sprintf("entry %d: end before start, skipped", idx))
			continue
		}

		textLines := lines[timeLineIdx+1:]
		entryText := strings.TrimRight(strings.Join(textLines, "\n"), " \t")

		sub.Entries = append(sub.Entries, formats.Entry{
			Index: idx,
			Start: start,
			End:   end,
			Text:  entryText,
		})
	}

	sub.SortByStart()
	return sub, warnings, nil
}

// Serialize renders a Subtitle as SRT text, renumbering indices from 1.
func (Codec) Serialize(sub formats.Subtitle) (string, error) {
	sub = sub.Clone()
	sub.SortByStart()
	sub.Renumber()

	var b strings.Builder
	for i, e := range sub.Entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", e.Index, formatSRTTime(e.Start), formatSRTTime(e.End), e.Text)
	}
	return b.String(), nil
}

func splitBlocks(text string) []string {
	return regexp.MustCompile(`\n\s*\n`).Split(text, -1)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func parseSRTTime(hh, mm, ss, mmm string) time.Duration {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	ms, _ := strconv.Atoi(mmm)
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(ms)*time.Millisecond
}

func formatSRTTime(d time.Duration) string {
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
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
