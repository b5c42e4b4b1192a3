package oracle

import "testing"

func TestParseResponseExtractsFromSurroundingText(t *testing.T) {
	raw := []byte("Sure, here is the result:\n```json\n{\"matches\":[{\"video_file_id\":\"file_a\",\"subtitle_file_id\":\"file_b\",\"confidence\":0.9,\"match_factors\":[\"name\"]}],\"overall_confidence\":0.9,\"reasoning\":\"ok\"}\n```\nLet me know if you need more.")
	resp := ParseResponse(raw)
	if len(resp.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(resp.Matches))
	}
	if resp.Matches[0].VideoFileID != "file_a" || resp.Matches[0].SubtitleFileID != "file_b" {
		t.Fatalf("unexpected match: %+v", resp.Matches[0])
	}
}

func TestParseResponseMalformedJSONFallsBackToZeroMatches(t *testing.T) {
	resp := ParseResponse([]byte("not json at all, no braces"))
	if len(resp.Matches) != 0 {
		t.Fatalf("expected zero matches for malformed input, got %d", len(resp.Matches))
	}
}

func TestParseResponseClampsConfidence(t *testing.T) {
	raw := []byte(`{"matches":[{"video_file_id":"a","subtitle_file_id":"b","confidence":1.5}]}`)
	resp := ParseResponse(raw)
	if resp.Matches[0].Confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %v", resp.Matches[0].Confidence)
	}
}
