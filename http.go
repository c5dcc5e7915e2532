package samup

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPTranscribeRequest configures HTTPTranscribe.
type HTTPTranscribeRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Options []Option
}

// HTTPTranscribe fetches a markup document over HTTP(S) and streams the
// HTML translation to Writer as the body arrives.
func HTTPTranscribe(ctx context.Context, req HTTPTranscribeRequest) error {
	if req.URL == "" {
		return fmt.Errorf("transcribe http: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("transcribe http: writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("transcribe http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return fmt.Errorf("transcribe http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("transcribe http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("transcribe http: status %s", resp.Status)
	}
	return Transcribe(TranscribeRequest{
		Reader:  resp.Body,
		Writer:  req.Writer,
		Options: req.Options,
	})
}
