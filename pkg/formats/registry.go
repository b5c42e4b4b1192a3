package formats

import coreerrors "github.com/subx-cli/subx/pkg/core/errors"

// Codec is the capability set every format implements (spec §4.4 table):
// detect/parse/serialize plus identity metadata. The registry is a small,
// closed table of four implementations selected by a tagged Format value
// rather than open-ended dynamic dispatch, exactly as spec §9 calls for.
type Codec interface {
	Name() string
	Extensions() []string
	Format() Format

	// Detect sniffs text (or a >=4KiB prefix of it) and reports whether
	// this codec is willing to parse it. Never errors.
	Detect(text string) bool

	// Parse converts raw text into the canonical Subtitle value.
	Parse(text string) (Subtitle, []string, error) // warnings, error

	// Serialize converts a Subtitle back to this format's text
	// representation.
	Serialize(sub Subtitle) (string, error)
}

// Registry holds one Codec per format, tried in a fixed precedence order
// for auto-detection: the more distinctive headers first (spec §4.4).
type Registry struct {
	order []Codec
}

// NewRegistry returns a registry pre-populated with the four built-in
// codecs in their spec-mandated detection precedence:
// ASS/SSA, then VTT, then SRT, then SUB.
func NewRegistry(ass, vtt, srt, sub Codec) *Registry {
	return &Registry{order: []Codec{ass, vtt, srt, sub}}
}

// Get returns the codec registered for format, or (nil, false).
func (r *Registry) Get(format Format) (Codec, bool) {
	for _, c := range r.order {
		if c.Format() == format {
			return c, true
		}
	}
	return nil, false
}

// ParseAuto tries each codec in precedence order and returns the result of
// the first one whose Detect accepts. If none accept, it returns
// SubtitleFormatError{Format: "unknown"} (spec §4.4).
func (r *Registry) ParseAuto(text string) (Subtitle, []string, error) {
	for _, c := range r.order {
		if c.Detect(text) {
			return c.Parse(text)
		}
	}
	return Subtitle{}, nil, &coreerrors.SubtitleFormatError{
		Format: string(Unknown),
		Reason: "no format detected",
	}
}
