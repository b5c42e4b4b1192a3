// Package ass implements the Advanced SubStation Alpha (.ass/.ssa) codec
// (spec §4.4.2).
package ass

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
	"github.com/subx-cli/subx/pkg/formats"
)

// Codec implements formats.Codec for ASS/SSA.
type Codec struct{}

func New() Codec { return Codec{} }

func (Codec) Name() string           { return "ASS" }
func (Codec) Extensions() []string   { return []string{"ass", "ssa"} }
func (Codec) Format() formats.Format { return formats.ASS }

// Detect requires a "[Script Info]", "[V4+ Styles]"/"[V4 Styles]" or
// "[Events]" section header, the most distinctive markers in the format
// (spec §4.4.2), which is
// why ASS is tried first in the registry's precedence order.
func (Codec) Detect(text string) bool {
	return strings.Contains(text, "[Script Info]") ||
		strings.Contains(text, "[V4+ Styles]") ||
		strings.Contains(text, "[V4 Styles]") ||
		strings.Contains(text, "[Events]")
}

const eventsFieldOrder = "Layer,Start,End,Style,Name,MarginL,MarginR,MarginV,Effect,Text"

// Parse converts ASS/SSA text into a Subtitle. Dialogue lines become
// Entries; Comment lines are preserved verbatim in Metadata.Comments
// (spec §4.4.2).
func (Codec) Parse(text string) (formats.Subtitle, []string, error) {
	text = strings.TrimPrefix(text, "\xef\xbb\xbf")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	sub := formats.Subtitle{
		SourceFormat: formats.ASS,
		Metadata: formats.Metadata{
			ScriptInfo: map[string]string{},
			Styles:     map[string]formats.ASSStyle{},
		},
	}
	var warnings []string

	section := ""
	var styleFields, eventFields []string

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, " \t")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			section = trimmed
			continue
		}

		switch section {
		case "[Script Info]":
			if strings.HasPrefix(trimmed, ";") {
				continue
			}
			if k, v, ok := splitColon(trimmed); ok {
				sub.Metadata.ScriptInfo[k] = v
			}

		case "[V4+ Styles]", "[V4 Styles]":
			if strings.HasPrefix(trimmed, "Format:") {
				styleFields = splitFields(strings.TrimPrefix(trimmed, "Format:"))
				continue
			}
			if strings.HasPrefix(trimmed, "Style:") {
				values := splitFields(strings.TrimPrefix(trimmed, "Style:"))
				style := formats.ASSStyle{Fields: map[string]string{}}
				for i, field := range styleFields {
					if i >= len(values) {
						break
					}
					if field == "Name" {
						style.Name = values[i]
					}
					style.Fields[field] = values[i]
				}
				if style.Name == "" {
					warnings = append(warnings, "style line missing Name field, skipped")
					continue
				}
				sub.Metadata.Styles[style.Name] = style
			}

		case "[Events]":
			if strings.HasPrefix(trimmed, "Format:") {
				eventFields = splitFields(strings.TrimPrefix(trimmed, "Format:"))
				continue
			}
			if strings.HasPrefix(trimmed, "Comment:") {
				sub.Metadata.Comments = append(sub.Metadata.Comments, trimmed)
				continue
			}
			if strings.HasPrefix(trimmed, "Dialogue:") {
				entry, warn, ok := parseDialogue(trimmed, eventFields, sub.Metadata.Styles)
				if warn != "" {
					warnings = append(warnings, warn)
				}
				if ok {
					sub.Entries = append(sub.Entries, entry)
				}
			}
		}
	}

	sub.SortByStart()
	return sub, warnings, nil
}

func parseDialogue(line string, fields []string, styles map[string]formats.ASSStyle) (formats.Entry, string, bool) {
	values := splitFieldsN(strings.TrimPrefix(line, "Dialogue:"), len(fields))
	if len(fields) == 0 {
		fields = strings.Split(eventsFieldOrder, ",")
	}

	get := func(name string) string {
		for i, f := range fields {
			if f == name && i < len(values) {
				return values[i]
			}
		}
		return ""
	}

	startStr, endStr := get("Start"), get("End")
	start, sErr := parseASSTime(startStr)
	end, eErr := parseASSTime(endStr)
	if sErr != nil || eErr != nil {
		return formats.Entry{}, fmt.Sprintf("skipped dialogue with garbled time: %q", line), false
	}
	if end < start {
		return formats.Entry{}, fmt.Sprintf("skipped dialogue with end before start: %q", line), false
	}

	styleName := get("Style")
	warn := ""
	if styleName == "" {
		styleName = "Default"
	} else if _, ok := styles[styleName]; !ok {
		warn = fmt.Sprintf("dialogue references unknown style %q, falling back to Default", styleName)
		styleName = "Default"
	}

	marginL, _ := strconv.Atoi(get("MarginL"))
	marginR, _ := strconv.Atoi(get("MarginR"))
	marginV, _ := strconv.Atoi(get("MarginV"))

	return formats.Entry{
		Start: start,
		End:   end,
		Text:  strings.ReplaceAll(get("Text"), "\\N", "\n"),
		StyleTags: formats.StyleInfo{
			ASSStyleName: styleName,
			ASSMarginL:   marginL,
			ASSMarginR:   marginR,
			ASSMarginV:   marginV,
			ASSEffect:    get("Effect"),
		},
	}, warn, true
}

// Serialize renders a Subtitle as ASS text with minimal required sections.
// Entries with an empty style name are written with "Default", and a
// Default style is synthesized when Metadata.Styles is empty. Style names
// are not checked against Metadata.Styles here; Parse does that (spec
// §4.4.2).
func (Codec) Serialize(sub formats.Subtitle) (string, error) {
	sub = sub.Clone()
	sub.SortByStart()
	sub.Renumber()

	var b strings.Builder

	b.WriteString("[Script Info]\n")
	if len(sub.Metadata.ScriptInfo) == 0 {
		b.WriteString("ScriptType: v4.00+\n")
	} else {
		for _, k := range []string{"Title", "ScriptType", "WrapStyle", "PlayResX", "PlayResY"} {
			if v, ok := sub.Metadata.ScriptInfo[k]; ok {
				fmt.Fprintf(&b, "%s: %s\n", k, v)
			}
		}
	}
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")

	styles := sub.Metadata.Styles
	if len(styles) == 0 {
		b.WriteString("Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n")
	} else {
		for _, name := range sortedStyleNames(styles) {
			b.WriteString("Style: ")
			b.WriteString(renderStyle(styles[name]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n[Events]\n")
	b.WriteString("Format: " + eventsFieldOrder + "\n")
	for _, c := range sub.Metadata.Comments {
		b.WriteString(c)
		b.WriteString("\n")
	}
	for _, e := range sub.Entries {
		styleName := e.StyleTags.ASSStyleName
		if styleName == "" {
			styleName = "Default"
		}
		text := strings.ReplaceAll(e.Text, "\n", "\\N")
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,%s,,%d,%d,%d,%s,%s\n",
			formatASSTime(e.Start), formatASSTime(e.End), styleName,
			e.StyleTags.ASSMarginL, e.StyleTags.ASSMarginR, e.StyleTags.ASSMarginV,
			e.StyleTags.ASSEffect, text)
	}

	return b.String(), nil
}

func sortedStyleNames(styles map[string]formats.ASSStyle) []string {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	return names
}

func renderStyle(s formats.ASSStyle) string {
	order := []string{"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
		"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
		"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline", "Shadow",
		"Alignment", "MarginL", "MarginR", "MarginV", "Encoding"}
	parts := make([]string, 0, len(order))
	for _, field := range order {
		parts = append(parts, s.Fields[field])
	}
	return strings.Join(parts, ",")
}

func splitColon(s string) (string, string, bool) {
	i := strings.Index(s, ":")
	if i < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), true
}

// splitFields splits a comma-separated Format/Style line into trimmed
// fields.
func splitFields(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// splitFieldsN splits a Dialogue/Comment value line into at most n fields,
// where the final field (Text) may itself contain commas.
func splitFieldsN(s string, n int) []string {
	if n <= 0 {
		n = 10
	}
	parts := strings.SplitN(s, ",", n)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func parseASSTime(s string) (time.Duration, error) {
	// H:MM:SS.cc
	var h, m, sec, cs int
	n, err := fmt.Sscanf(s, "%d:%d:%d.%d", &h, &m, &sec, &cs)
	if err != nil || n != 4 {
		return 0, &coreerrors.SubtitleFormatError{Format: string(formats.ASS), Reason: "garbled time: " + s}
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second + time.Duration(cs)*10*time.Millisecond, nil
}

func formatASSTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	cs := d / (10 * time.Millisecond)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}
