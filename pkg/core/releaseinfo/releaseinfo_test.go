package releaseinfo

import "testing"

func TestParseSeriesFilename(t *testing.T) {
	info := Parse("Show.Name.S02E05.1080p.WEB-DL.GROUP.mkv")
	if info.Season != 2 || info.Episode != 5 {
		t.Fatalf("expected S02E05, got season=%d episode=%d", info.Season, info.Episode)
	}
	if info.ReasoningFactor() == "" {
		t.Fatal("expected a non-empty reasoning factor for a parsed release name")
	}
}

func TestParseUnparseableReturnsZeroValue(t *testing.T) {
	info := Parse("")
	if info.ReasoningFactor() != "" {
		t.Fatalf("expected empty reasoning factor for empty filename, got %q", info.ReasoningFactor())
	}
}
