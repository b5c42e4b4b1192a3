package oracle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProviderMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/match" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("expected bearer auth header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[{"video_file_id":"file_1","subtitle_file_id":"file_2","confidence":0.8,"match_factors":["stem"]}],"overall_confidence":0.8,"reasoning":"matched by stem"}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "test-key", "test-model")
	resp, err := p.Match(context.Background(), Request{
		Videos:    []VideoRecord{{FileID: "file_1", Name: "movie", Path: "movie.mkv"}},
		Subtitles: []SubtitleRecord{{FileID: "file_2", Name: "movie", Path: "movie.srt"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Matches) != 1 || resp.Matches[0].Confidence != 0.8 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHTTPProviderVerify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"confidence":0.95}`))
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "", "test-model")
	confidence, err := p.Verify(context.Background(), "file_1", "file_2")
	if err != nil {
		t.Fatal(err)
	}
	if confidence != 0.95 {
		t.Fatalf("expected confidence 0.95, got %v", confidence)
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewHTTPProvider(server.URL, "", "test-model")
	_, err := p.Match(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error for HTTP 500")
	}
}
