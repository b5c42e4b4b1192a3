package match

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/subx-cli/subx/pkg/matchplan"
	"github.com/subx-cli/subx/pkg/oracle"
)

type stubProvider struct {
	resp oracle.Response
	err  error
}

func (s *stubProvider) Match(ctx context.Context, req oracle.Request) (oracle.Response, error) {
	return s.resp, s.err
}

func setupScanRoot(t *testing.T) string {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movie.mkv"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.srt"), []byte("1\n00:00:01,000 --> 00:00:02,000\nhi\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRunEmptyWhenNoSubtitles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "movie.mkv"), []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	e := NewEngine(&stubProvider{}, nil)
	result, err := e.Run(context.Background(), dir, Config{RelocationMode: matchplan.RelocationNone, NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Plan.Operations) != 0 {
		t.Fatalf("expected empty plan, got %+v", result.Plan.Operations)
	}
}

func TestRunDryRunPlansRename(t *testing.T) {
	dir := setupScanRoot(t)

	// Discover file ids by running once with a provider that returns no
	// matches, just to read back the ids it was asked about.
	var seenVideoID, seenSubtitleID string
	probe := providerFunc(func(ctx context.Context, req oracle.Request) (oracle.Response, error) {
		if len(req.Videos) > 0 {
			seenVideoID = req.Videos[0].FileID
		}
		if len(req.Subtitles) > 0 {
			seenSubtitleID = req.Subtitles[0].FileID
		}
		return oracle.Response{}, nil
	})
	e := NewEngine(probe, nil)
	_, err := e.Run(context.Background(), dir, Config{ConfidenceThreshold: 0.5, NoCache: true, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}

	provider := providerFunc(func(ctx context.Context, req oracle.Request) (oracle.Response, error) {
		return oracle.Response{Matches: []oracle.Match{
			{VideoFileID: seenVideoID, SubtitleFileID: seenSubtitleID, Confidence: 0.9, MatchFactors: []string{"stem match"}},
		}}, nil
	})

	e2 := NewEngine(provider, nil)
	result, err := e2.Run(context.Background(), dir, Config{
		ConfidenceThreshold: 0.5,
		RelocationMode:      matchplan.RelocationNone,
		NoCache:             true,
		DryRun:              true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Plan.Operations) != 1 {
		t.Fatalf("expected 1 planned operation, got %d", len(result.Plan.Operations))
	}
	op := result.Plan.Operations[0]
	if op.NewSubtitleName != "movie.srt" {
		t.Fatalf("unexpected new subtitle name: %q", op.NewSubtitleName)
	}
	if op.RequiresRelocation {
		t.Fatal("expected no relocation when subtitle already sits beside the video")
	}
}

type providerFunc func(ctx context.Context, req oracle.Request) (oracle.Response, error)

func (f providerFunc) Match(ctx context.Context, req oracle.Request) (oracle.Response, error) {
	return f(ctx, req)
}
