package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxImageBytes is the hard ceiling on fetched image payloads. Larger images
// are rejected before anything is sent to the classification provider.
const MaxImageBytes = 20 * 1024 * 1024

// Some image hosts reject requests without a browser User-Agent
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const defaultMimeType = "image/jpeg"

// ImageFetcher retrieves image bytes from a URL
type ImageFetcher struct {
	httpClient *http.Client
}

// NewImageFetcher creates a new image fetcher
func NewImageFetcher(timeout time.Duration) *ImageFetcher {
	return &ImageFetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the image at the given URL and returns its bytes together
// with the detected MIME type. Non-2xx responses, network failures, empty
// bodies and payloads over MaxImageBytes all fail with a *FetchError.
func (f *ImageFetcher) Fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, "", &FetchError{Reason: fmt.Sprintf("invalid image URL: %v", err)}
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", &FetchError{Reason: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &FetchError{
			StatusCode: resp.StatusCode,
			Reason:     "unexpected status from image host",
		}
	}

	if resp.ContentLength > MaxImageBytes {
		return nil, "", &FetchError{
			StatusCode: resp.StatusCode,
			Size:       resp.ContentLength,
			Reason:     "image exceeds size limit",
		}
	}

	// Read one byte past the limit so oversized bodies without a
	// Content-Length header are still caught.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return nil, "", &FetchError{Reason: fmt.Sprintf("failed to read body: %v", err)}
	}
	if len(data) == 0 {
		return nil, "", &FetchError{StatusCode: resp.StatusCode, Reason: "empty image body"}
	}
	if len(data) > MaxImageBytes {
		return nil, "", &FetchError{
			StatusCode: resp.StatusCode,
			Size:       int64(len(data)),
			Reason:     "image exceeds size limit",
		}
	}

	mimeType := resp.Header.Get("Content-Type")
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	return data, mimeType, nil
}
