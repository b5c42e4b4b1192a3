package match

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/subx-cli/subx/pkg/core/discovery"
	"github.com/subx-cli/subx/pkg/matchplan"
	"github.com/subx-cli/subx/pkg/oracle"
)

// findByKind returns the first discovered file of kind k whose stem is
// name, failing the test if none was found.
func findByKind(t *testing.T, files []discovery.MediaFile, k discovery.Kind, name string) discovery.MediaFile {
	t.Helper()
	for _, f := range files {
		if f.Kind == k && f.Name == name {
			return f
		}
	}
	t.Fatalf("no %s named %q among %+v", k, name, files)
	return discovery.MediaFile{}
}

func matchProvider(videoID, subtitleID string, confidence float64) providerFunc {
	return func(ctx context.Context, req oracle.Request) (oracle.Response, error) {
		return oracle.Response{Matches: []oracle.Match{
			{VideoFileID: videoID, SubtitleFileID: subtitleID, Confidence: confidence},
		}}, nil
	}
}

// TestRunCopyAcrossDirectoriesPreservesSource drives Engine.Run through
// Copy/RequiresRelocation (scenario S2, spec §4.7.1): the source subtitle
// must still exist after the copy lands beside the video in a different
// directory.
func TestRunCopyAcrossDirectoriesPreservesSource(t *testing.T) {
	dir := t.TempDir()
	videoDir := filepath.Join(dir, "videos")
	subDir := filepath.Join(dir, "subs")
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(videoDir, "movie.mkv"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "movie.srt"), []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	scan, err := discovery.Scan(ctx, dir, discovery.Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	video := findByKind(t, scan.Files, discovery.Video, "movie")
	subtitle := findByKind(t, scan.Files, discovery.Subtitle, "movie")

	e := NewEngine(matchProvider(video.ID, subtitle.ID, 0.9), nil)
	result, err := e.Run(ctx, dir, Config{
		ConfidenceThreshold: 0.5,
		RelocationMode:      matchplan.RelocationCopy,
		ConflictResolution:  matchplan.ConflictAutoRename,
		NoCache:             true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Results) != 1 || result.Results[0].Status != matchplan.StatusCopied {
		t.Fatalf("expected 1 copied result, got %+v", result.Results)
	}

	if _, err := os.Stat(filepath.Join(subDir, "movie.srt")); err != nil {
		t.Fatalf("expected source subtitle preserved after copy, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(videoDir, "movie.srt")); err != nil {
		t.Fatalf("expected copy to land beside video, got %v", err)
	}
}

// TestRunMoveAcrossDirectoriesRemovesSource drives Engine.Run through
// Move/RequiresRelocation (spec §4.7.1): the source subtitle must be gone
// after the move, leaving only the relocated copy beside the video.
func TestRunMoveAcrossDirectoriesRemovesSource(t *testing.T) {
	dir := t.TempDir()
	videoDir := filepath.Join(dir, "videos")
	subDir := filepath.Join(dir, "subs")
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(videoDir, "movie.mkv"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(subDir, "movie.srt"), []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	scan, err := discovery.Scan(ctx, dir, discovery.Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	video := findByKind(t, scan.Files, discovery.Video, "movie")
	subtitle := findByKind(t, scan.Files, discovery.Subtitle, "movie")

	e := NewEngine(matchProvider(video.ID, subtitle.ID, 0.9), nil)
	result, err := e.Run(ctx, dir, Config{
		ConfidenceThreshold: 0.5,
		RelocationMode:      matchplan.RelocationMove,
		ConflictResolution:  matchplan.ConflictAutoRename,
		NoCache:             true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Results) != 1 || result.Results[0].Status != matchplan.StatusMoved {
		t.Fatalf("expected 1 moved result, got %+v", result.Results)
	}

	if _, err := os.Stat(filepath.Join(subDir, "movie.srt")); !os.IsNotExist(err) {
		t.Fatalf("expected source subtitle removed after move, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(videoDir, "movie.srt")); err != nil {
		t.Fatalf("expected moved file beside video, got %v", err)
	}
}

// TestRunAutoRenameOnConflictAppendsSuffix drives Engine.Run through a
// destination collision (scenario S6, spec §4.7.2): when the planned
// destination already exists, AutoRename must produce a "_1" suffixed
// sibling rather than overwriting or failing.
func TestRunAutoRenameOnConflictAppendsSuffix(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movie.mkv"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.srt"), []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.srt"), []byte("pre-existing"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	scan, err := discovery.Scan(ctx, dir, discovery.Options{Recursive: true})
	if err != nil {
		t.Fatal(err)
	}
	video := findByKind(t, scan.Files, discovery.Video, "movie")
	subtitle := findByKind(t, scan.Files, discovery.Subtitle, "other")

	e := NewEngine(matchProvider(video.ID, subtitle.ID, 0.9), nil)
	result, err := e.Run(ctx, dir, Config{
		ConfidenceThreshold: 0.5,
		RelocationMode:      matchplan.RelocationNone,
		ConflictResolution:  matchplan.ConflictAutoRename,
		NoCache:             true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Results) != 1 || result.Results[0].Status != matchplan.StatusRenamed {
		t.Fatalf("expected 1 renamed result, got %+v", result.Results)
	}

	if _, err := os.Stat(filepath.Join(dir, "other.srt")); !os.IsNotExist(err) {
		t.Fatalf("expected source subtitle renamed away, stat err = %v", err)
	}
	preExisting, err := os.ReadFile(filepath.Join(dir, "movie.srt"))
	if err != nil || string(preExisting) != "pre-existing" {
		t.Fatalf("expected pre-existing movie.srt untouched, got %q, err %v", preExisting, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "movie_1.srt")); err != nil {
		t.Fatalf("expected AutoRename to produce movie_1.srt, got %v", err)
	}
}
