// Package transform implements the Cross-Format Transformer (spec §4.5): it
// converts a parsed Subtitle from its source format into a target format,
// either stripping inline styling entirely or making a best-effort
// translation of it. The Format Registry in pkg/formats owns parsing and
// serialization; this package only rewrites the canonical Subtitle value
// between those two steps.
package transform

import (
	"regexp"
	"strings"

	"github.com/subx-cli/subx/pkg/formats"
)

// Options configures a single transform call.
type Options struct {
	// PreserveStyling requests a best-effort styled translation instead of
	// stripping inline styling (spec §4.5).
	PreserveStyling bool
}

// Transform converts sub (already parsed by the registry) so that it is
// ready to be serialized by target's codec. It returns any warnings
// produced along the way — most notably when translating into MicroDVD SUB,
// which has no native styling at all.
func Transform(sub formats.Subtitle, target formats.Format, opts Options) (formats.Subtitle, []string, error) {
	out := sub.Clone()

	if sub.SourceFormat == target {
		out.SortByStart()
		out.Renumber()
		return out, nil, nil
	}

	var warnings []string

	switch target {
	case formats.SUB:
		for i := range out.Entries {
			out.Entries[i].Text = stripAllStyling(out.Entries[i].Text, out.Entries[i].StyleTags, sub.SourceFormat)
			out.Entries[i].StyleTags = formats.StyleInfo{Stripped: true}
		}
		if opts.PreserveStyling {
			warnings = append(warnings, "target format has no native styling support, styling was stripped")
		}
		out.Metadata = formats.Metadata{FrameRate: 23.976}

	case formats.VTT:
		for i := range out.Entries {
			e := &out.Entries[i]
			if opts.PreserveStyling {
				e.Text = convertInlineStyling(e.Text, e.StyleTags, sub.SourceFormat, target)
			} else {
				e.Text = stripAllStyling(e.Text, e.StyleTags, sub.SourceFormat)
			}
			e.StyleTags = formats.StyleInfo{}
		}
		out.Metadata = formats.Metadata{}

	case formats.ASS:
		for i := range out.Entries {
			e := &out.Entries[i]
			if opts.PreserveStyling {
				e.Text = convertInlineStyling(e.Text, e.StyleTags, sub.SourceFormat, target)
			} else {
				e.Text = stripAllStyling(e.Text, e.StyleTags, sub.SourceFormat)
			}
			e.StyleTags = formats.StyleInfo{ASSStyleName: "Default"}
		}
		out.Metadata = formats.Metadata{
			ScriptInfo: map[string]string{"ScriptType": "v4.00+"},
			Styles:     map[string]formats.ASSStyle{},
		}

	case formats.SRT:
		for i := range out.Entries {
			e := &out.Entries[i]
			if opts.PreserveStyling {
				e.Text = convertInlineStyling(e.Text, e.StyleTags, sub.SourceFormat, target)
			} else {
				e.Text = stripAllStyling(e.Text, e.StyleTags, sub.SourceFormat)
			}
			e.StyleTags = formats.StyleInfo{}
		}
		out.Metadata = formats.Metadata{}
	}

	out.SourceFormat = target
	out.SortByStart()
	out.Renumber()
	return out, warnings, nil
}

var (
	assOverrideRe = regexp.MustCompile(`\{\\[^}]*\}`)
	htmlTagRe     = regexp.MustCompile(`</?(?:i|b|u)>`)
	fontTagRe     = regexp.MustCompile(`</?font(?: color="#[0-9A-Fa-f]{6}")?>`)
	assColorRe    = regexp.MustCompile(`\{\\c&H([0-9A-Fa-f]{6})&\}`)
	assColorEndRe = regexp.MustCompile(`\{\\c\}`)
	fontOpenRe    = regexp.MustCompile(`<font color="#([0-9A-Fa-f]{6})">`)
	fontCloseRe   = regexp.MustCompile(`</font>`)
)

// reverseColorBytes swaps a 6-digit hex color's byte order. It is its own
// inverse: RRGGBB -> BBGGRR and BBGGRR -> RRGGBB use the same swap, which is
// the ABGR byte-reversal ASS color overrides require (spec §4.5).
func reverseColorBytes(hex string) string {
	if len(hex) != 6 {
		return hex
	}
	return hex[4:6] + hex[2:4] + hex[0:2]
}

// stripAllStyling removes every inline styling marker this package knows
// about, regardless of source format, leaving plain text.
func stripAllStyling(text string, _ formats.StyleInfo, source formats.Format) string {
	switch source {
	case formats.ASS:
		return assOverrideRe.ReplaceAllString(text, "")
	default:
		text = fontTagRe.ReplaceAllString(text, "")
		return htmlTagRe.ReplaceAllString(text, "")
	}
}

// convertInlineStyling maps the subset of inline styling both SRT and VTT
// understand natively (italic/bold/underline HTML-like tags, plus
// <font color="#RRGGBB">) to and from ASS override blocks. ASS colors are
// stored ABGR, so the hex digits are byte-reversed in both directions (spec
// §4.5). When translating out of ASS, override blocks it doesn't recognize
// are dropped; other unrecognized markup is left untouched.
func convertInlineStyling(text string, _ formats.StyleInfo, source, target formats.Format) string {
	switch {
	case source == formats.ASS && (target == formats.SRT || target == formats.VTT):
		text = assColorRe.ReplaceAllStringFunc(text, func(m string) string {
			bbggrr := assColorRe.FindStringSubmatch(m)[1]
			return `<font color="#` + reverseColorBytes(bbggrr) + `">`
		})
		text = assColorEndRe.ReplaceAllString(text, "</font>")
		text = strings.NewReplacer(
			`{\i1}`, "<i>", `{\i0}`, "</i>",
			`{\b1}`, "<b>", `{\b0}`, "</b>",
			`{\u1}`, "<u>", `{\u0}`, "</u>",
		).Replace(text)
		return assOverrideRe.ReplaceAllString(text, "")

	case target == formats.ASS && (source == formats.SRT || source == formats.VTT):
		text = fontOpenRe.ReplaceAllStringFunc(text, func(m string) string {
			rrggbb := fontOpenRe.FindStringSubmatch(m)[1]
			return `{\c&H` + reverseColorBytes(rrggbb) + `&}`
		})
		text = fontCloseRe.ReplaceAllString(text, `{\c}`)
		return strings.NewReplacer(
			"<i>", `{\i1}`, "</i>", `{\i0}`,
			"<b>", `{\b1}`, "</b>", `{\b0}`,
			"<u>", `{\u1}`, "</u>", `{\u0}`,
		).Replace(text)

	default:
		// SRT <-> VTT: both understand the same basic tag set, carry over
		// verbatim.
		return text
	}
}
