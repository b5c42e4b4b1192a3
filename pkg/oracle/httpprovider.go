package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	coreerrors "github.com/subx-cli/subx/pkg/core/errors"
)

// HTTPProvider is a reference AIProvider implementation that POSTs a Request
// to a configured endpoint and parses the reply per ParseResponse. Its
// shape (bare http.Client, transport override for tests via SetHTTPClient,
// base URL and API key read at construction) mirrors the teacher's
// Trakt/IMDb REST clients.
type HTTPProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewHTTPProvider builds a provider against baseURL using apiKey as a
// bearer token. model is passed through to the provider for its own
// routing; the engine never inspects it.
func NewHTTPProvider(baseURL, apiKey, model string) *HTTPProvider {
	return &HTTPProvider{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
	}
}

// SetHTTPClient overrides the transport, for tests.
func (p *HTTPProvider) SetHTTPClient(c *http.Client) { p.httpClient = c }

type httpRequestEnvelope struct {
	Model     string           `json:"model"`
	Videos    []VideoRecord    `json:"videos"`
	Subtitles []SubtitleRecord `json:"subtitles"`
}

// Match implements AIProvider by POSTing req to "<baseURL>/match".
func (p *HTTPProvider) Match(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(httpRequestEnvelope{Model: p.model, Videos: req.Videos, Subtitles: req.Subtitles})
	if err != nil {
		return Response{}, &coreerrors.AIServiceError{Reason: "encoding request", Cause: err}
	}

	endpoint, err := url.JoinPath(p.baseURL, "match")
	if err != nil {
		return Response{}, &coreerrors.AIServiceError{Reason: "building endpoint URL", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, &coreerrors.AIServiceError{Reason: "building request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			// Engine treats a timed-out/cancelled call as zero matches,
			// not an error (spec §5).
			return Response{}, nil
		}
		return Response{}, &coreerrors.AIServiceError{Reason: "calling provider", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, &coreerrors.AIServiceError{Reason: "reading response", Cause: err}
	}
	if resp.StatusCode >= 400 {
		return Response{}, &coreerrors.AIServiceError{Reason: fmt.Sprintf("provider returned HTTP %d", resp.StatusCode)}
	}

	return ParseResponse(raw), nil
}

type verifyRequestEnvelope struct {
	Model          string `json:"model"`
	VideoFileID    string `json:"video_file_id"`
	SubtitleFileID string `json:"subtitle_file_id"`
}

type verifyResponseEnvelope struct {
	Confidence float64 `json:"confidence"`
}

// Verify implements the optional Verifier capability by POSTing to
// "<baseURL>/verify". Any failure is returned as an error so the caller can
// fall back to the original confidence, per spec §4.6.
func (p *HTTPProvider) Verify(ctx context.Context, videoFileID, subtitleFileID string) (float64, error) {
	body, err := json.Marshal(verifyRequestEnvelope{Model: p.model, VideoFileID: videoFileID, SubtitleFileID: subtitleFileID})
	if err != nil {
		return 0, err
	}

	endpoint, err := url.JoinPath(p.baseURL, "verify")
	if err != nil {
		return 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("oracle: verify returned HTTP %d", resp.StatusCode)
	}

	var out verifyResponseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("oracle: decoding verify response: %w", err)
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	} else if out.Confidence > 1 {
		out.Confidence = 1
	}
	return out.Confidence, nil
}
