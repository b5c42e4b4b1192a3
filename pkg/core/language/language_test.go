package language

import "testing"

func TestDetectFilenameTag(t *testing.T) {
	info := Detect("Movies/movie.tc.srt")
	if info == nil {
		t.Fatal("expected a match")
	}
	if info.PrimaryCode != "tc" {
		t.Fatalf("expected primary code tc, got %s", info.PrimaryCode)
	}
	if len(info.Sources) != 1 || info.Sources[0] != SourceFilename {
		t.Fatalf("expected filename source only, got %v", info.Sources)
	}
}

func TestDetectDirectoryTag(t *testing.T) {
	info := Detect("Show/en/episode01.srt")
	if info == nil {
		t.Fatal("expected a match")
	}
	if info.PrimaryCode != "en" {
		t.Fatalf("expected primary code en, got %s", info.PrimaryCode)
	}
}

func TestDetectPrefersFilenameOverDirectory(t *testing.T) {
	info := Detect("Show/en/episode01.ja.srt")
	if info == nil {
		t.Fatal("expected a match")
	}
	if info.PrimaryCode != "ja" {
		t.Fatalf("expected filename tag ja to win, got %s", info.PrimaryCode)
	}
	found := map[Source]bool{}
	for _, s := range info.Sources {
		found[s] = true
	}
	if !found[SourceFilename] || !found[SourceDirectory] {
		t.Fatalf("expected both sources present, got %v", info.Sources)
	}
}

func TestDetectNoMatch(t *testing.T) {
	if info := Detect("random/path/movie.mkv"); info != nil {
		t.Fatalf("expected no match, got %+v", info)
	}
}

func TestDetectZhTwDirectory(t *testing.T) {
	info := Detect("Show/zh-tw/ep.srt")
	if info == nil || info.PrimaryCode != "zh-tw" {
		t.Fatalf("expected zh-tw match, got %+v", info)
	}
}
