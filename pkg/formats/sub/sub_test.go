package sub

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	if !New().Detect("{1}{1}23.976\n{100}{200}Hello") {
		t.Fatal("expected Detect to accept MicroDVD line")
	}
	if New().Detect("WEBVTT\n\n00:00.000 --> 00:01.000\nhi") {
		t.Fatal("expected Detect to reject VTT")
	}
}

func TestParseDefaultFrameRate(t *testing.T) {
	sub, warnings, err := New().Parse("{0}{24}Hello there\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(sub.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sub.Entries))
	}
	if sub.Metadata.FrameRateExplicit {
		t.Fatal("expected default frame rate to not be marked explicit")
	}
	// 24 frames at 23.976fps ~= 1.001s
	if sub.Entries[0].End.Milliseconds() < 990 || sub.Entries[0].End.Milliseconds() > 1010 {
		t.Fatalf("unexpected end duration: %v", sub.Entries[0].End)
	}
}

func TestParseExplicitFrameRateHeader(t *testing.T) {
	sub, _, err := New().Parse("{1}{1}25\n{25}{50}Hi|there\n")
	if err != nil {
		t.Fatal(err)
	}
	if !sub.Metadata.FrameRateExplicit || sub.Metadata.FrameRate != 25 {
		t.Fatalf("expected explicit 25fps, got %+v", sub.Metadata)
	}
	if len(sub.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(sub.Entries))
	}
	if sub.Entries[0].Start.Seconds() != 1.0 {
		t.Fatalf("expected start at 1s, got %v", sub.Entries[0].Start)
	}
	if sub.Entries[0].Text != "Hi\nthere" {
		t.Fatalf("expected pipe to become newline, got %q", sub.Entries[0].Text)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	sub, _, err := New().Parse("{1}{1}25\n{25}{50}Hi|there\n")
	if err != nil {
		t.Fatal(err)
	}
	out, err := New().Serialize(sub)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "{1}{1}25\n") {
		t.Fatalf("expected frame rate header, got %q", out)
	}
	if !strings.Contains(out, "{25}{50}Hi|there") {
		t.Fatalf("expected round-tripped frame numbers, got %q", out)
	}
}
