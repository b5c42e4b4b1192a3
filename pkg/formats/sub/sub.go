// Package sub implements the MicroDVD (.sub) codec (spec §4.4.4). MicroDVD
// has no native styling and no timestamp units of its own: its frame
// numbers are converted to/from Entry.Start/Entry.End using a frame rate,
// either an explicit "{1}{1}rate" header or the default of 23.976 fps.
package sub

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/subx-cli/subx/pkg/formats"
)

const defaultFrameRate = 23.976

// Codec implements formats.Codec for MicroDVD.
type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Name() string           { return "SUB" }
func (Codec) Extensions() []string   { return []string{"sub"} }
func (Codec) Format() formats.Format { return formats.SUB }

var lineRe = regexp.MustCompile(`^\{(\d+)\}\{(\d+)\}(.*)$`)

// Detect requires at least one "{start}{end}text" line (spec §4.4.4). Tried
// last in the registry since it is the least distinctive grammar.
func (Codec) Detect(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if lineRe.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// Parse converts MicroDVD text into a Subtitle. Pipe characters inside an
// entry's text become separate lines (spec §4.4.4).
func (Codec) Parse(text string) (formats.Subtitle, []string, error) {
	text = strings.TrimPrefix(text, "\xef\xbb\xbf")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	sub := formats.Subtitle{SourceFormat: formats.SUB}
	sub.Metadata.FrameRate = defaultFrameRate

	var warnings []string
	fps := defaultFrameRate

	lines := strings.Split(text, "\n")
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			warnings = append(warnings, fmt.Sprintf("skipped unrecognized line: %q", line))
			continue
		}

		startFrame, _ := strconv.Atoi(m[1])
		endFrame, _ := strconv.Atoi(m[2])
		body := m[3]

		if startFrame == 1 && endFrame == 1 && len(sub.Entries) == 0 {
			if rate, err := strconv.ParseFloat(strings.TrimSpace(body), 64); err == nil && rate > 0 {
				fps = rate
				sub.Metadata.FrameRate = rate
				sub.Metadata.FrameRateExplicit = true
				continue
			}
		}

		if endFrame < startFrame {
			warnings = append(warnings, fmt.Sprintf("skipped entry with end frame before start frame: %q", line))
			continue
		}

		entryText := strings.ReplaceAll(body, "|", "\n")
		sub.Entries = append(sub.Entries, formats.Entry{
			Start: framesToDuration(startFrame, fps),
			End:   framesToDuration(endFrame, fps),
			Text:  entryText,
		})
	}

	sub.SortByStart()
	return sub, warnings, nil
}

// Serialize renders a Subtitle as MicroDVD text, emitting a "{1}{1}rate"
// header with the frame rate used for the conversion (spec §4.4.4).
func (Codec) Serialize(sub formats.Subtitle) (string, error) {
	sub = sub.Clone()
	sub.SortByStart()
	sub.Renumber()

	fps := sub.Metadata.FrameRate
	if fps <= 0 {
		fps = defaultFrameRate
	}

	var b strings.Builder
	fmt.Fprintf(&b, "{1}{1}%s\n", strconv.FormatFloat(fps, 'f', -1, 64))

	for _, e := range sub.Entries {
		startFrame := durationToFrames(e.Start, fps)
		endFrame := durationToFrames(e.End, fps)
		text := strings.ReplaceAll(e.Text, "\n", "|")
		fmt.Fprintf(&b, "{%d}{%d}%s\n", startFrame, endFrame, text)
	}
	return b.String(), nil
}

func framesToDuration(frame int, fps float64) time.Duration {
	seconds := float64(frame) / fps
	return time.Duration(seconds * float64(time.Second))
}

func durationToFrames(d time.Duration, fps float64) int {
	seconds := d.Seconds()
	return int(seconds*fps + 0.5)
}
