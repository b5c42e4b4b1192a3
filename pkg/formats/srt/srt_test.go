package srt

import (
	"strings"
	"testing"
	"time"

	"github.com/subx-cli/subx/pkg/formats"
)

const sample = "1\n00:00:01,000 --> 00:00:02,500\nHello there\n\n2\n00:00:03,000 --> 00:00:04,000\nSecond line\nwrapped\n"

func TestDetect(t *testing.T) {
	if !New().Detect(sample) {
		t.Fatal("expected Detect to accept valid SRT")
	}
	if New().Detect("WEBVTT\n\n00:00.000 --> 00:01.000\nhi") {
		t.Fatal("expected Detect to reject VTT timing format")
	}
}

func TestParseBasic(t *testing.T) {
	sub, warnings, err := New().Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(sub.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(sub.Entries))
	}
	if sub.Entries[0].Start != 1*time.Second {
		t.Fatalf("unexpected start: %v", sub.Entries[0].Start)
	}
	if sub.Entries[0].End != 2500*time.Millisecond {
		t.Fatalf("unexpected end: %v", sub.Entries[0].End)
	}
	if sub.Entries[1].Text != "Second line\nwrapped" {
		t.Fatalf("unexpected text: %q", sub.Entries[1].Text)
	}
}

func TestParseSkipsGarbledBlock(t *testing.T) {
	text := "1\nnot a time line\nHello\n\n2\n00:00:03,000 --> 00:00:04,000\nOK\n"
	sub, warnings, err := New().Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Entries) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", len(sub.Entries))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
}

func TestParseStripsBOMAndCRLF(t *testing.T) {
	text := "\xef\xbb\xbf1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n"
	sub, _, err := New().Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub.Entries) != 1 || sub.Entries[0].Text != "Hi" {
		t.Fatalf("unexpected parse result: %+v", sub.Entries)
	}
}

func TestSerializeRenumbers(t *testing.T) {
	sub := formats.Subtitle{Entries: []formats.Entry{
		{Index: 99, Start: 2 * time.Second, End: 3 * time.Second, Text: "b"},
		{Index: 5, Start: 1 * time.Second, End: 2 * time.Second, Text: "a"},
	}}
	out, err := New().Serialize(sub)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "1\n00:00:01,000 --> 00:00:02,000\na\n") {
		t.Fatalf("unexpected serialization order/renumbering: %q", out)
	}
	if !strings.Contains(out, "2\n00:00:02,000 --> 00:00:03,000\nb\n") {
		t.Fatalf("missing second renumbered entry: %q", out)
	}
}

func TestRoundTrip(t *testing.T) {
	sub, _, err := New().Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	out, err := New().Serialize(sub)
	if err != nil {
		t.Fatal(err)
	}
	sub2, _, err := New().Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(sub2.Entries) != len(sub.Entries) {
		t.Fatalf("round trip lost entries: %d vs %d", len(sub2.Entries), len(sub.Entries))
	}
}
