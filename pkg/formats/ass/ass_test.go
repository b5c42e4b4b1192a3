package ass

import (
	"strings"
	"testing"
	"time"
)

const sample = `[Script Info]
Title: Demo
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,Hello there
Comment: 0,0:00:01.00,0:00:02.50,Default,,0,0,0,,a note
Dialogue: 0,0:00:03.00,0:00:04.00,Unknown,,0,0,0,,Line two\Nwrapped
`

func TestDetect(t *testing.T) {
	if !New().Detect(sample) {
		t.Fatal("expected Detect to accept ASS sample")
	}
	if New().Detect("WEBVTT\n\n00:00.000 --> 00:01.000\nhi") {
		t.Fatal("expected Detect to reject VTT")
	}
}

func TestParseBasic(t *testing.T) {
	sub, warnings, err := New().Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 dialogue entries, got %d", len(sub.Entries))
	}
	if sub.Entries[0].Start != 1*time.Second {
		t.Fatalf("unexpected start: %v", sub.Entries[0].Start)
	}
	if sub.Entries[0].StyleTags.ASSStyleName != "Default" {
		t.Fatalf("unexpected style: %q", sub.Entries[0].StyleTags.ASSStyleName)
	}
	if len(sub.Metadata.Comments) != 1 {
		t.Fatalf("expected 1 preserved comment, got %d", len(sub.Metadata.Comments))
	}
	if sub.Entries[1].StyleTags.ASSStyleName != "Default" {
		t.Fatalf("expected unknown style to fall back to Default, got %q", sub.Entries[1].StyleTags.ASSStyleName)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning for unknown style, got %v", warnings)
	}
	if sub.Entries[1].Text != "Line two\nwrapped" {
		t.Fatalf("expected \\N to become newline, got %q", sub.Entries[1].Text)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	sub, _, err := New().Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	out, err := New().Serialize(sub)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[Script Info]") || !strings.Contains(out, "[V4+ Styles]") || !strings.Contains(out, "[Events]") {
		t.Fatalf("missing required sections: %q", out)
	}
	sub2, _, err := New().Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub2.Entries) != len(sub.Entries) {
		t.Fatalf("round trip lost entries: %d vs %d", len(sub2.Entries), len(sub.Entries))
	}
}

func TestParseGarbledTimeSkipped(t *testing.T) {
	text := "[Events]\nFormat: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\nDialogue: 0,garbled,0:00:02.00,Default,,0,0,0,,hi\n"
	sub, warnings, err := New().Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Entries) != 0 {
		t.Fatalf("expected garbled dialogue to be skipped, got %d entries", len(sub.Entries))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}
