package ai

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestImageDataURL(t *testing.T) {
	dir := t.TempDir()
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	testCases := []struct {
		file string
		mime string
	}{
		{"chart.png", "image/png"},
		{"chart.jpg", "image/jpeg"},
		{"chart.JPEG", "image/jpeg"},
		{"chart.webp", "image/webp"},
		{"chart.unknown", "image/png"},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := filepath.Join(dir, tc.file)
			if err := os.WriteFile(path, payload, 0644); err != nil {
				t.Fatal(err)
			}

			url, err := imageDataURL(path)
			if err != nil {
				t.Fatalf("imageDataURL returned error: %v", err)
			}
			prefix := "data:" + tc.mime + ";base64,"
			if !strings.HasPrefix(url, prefix) {
				t.Fatalf("url = %q, want prefix %q", url, prefix)
			}
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
			if err != nil {
				t.Fatalf("payload does not decode: %v", err)
			}
			if string(decoded) != string(payload) {
				t.Errorf("decoded payload = %v, want %v", decoded, payload)
			}
		})
	}
}

func TestImageDataURLMissingFile(t *testing.T) {
	if _, err := imageDataURL(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("missing chart file should fail")
	}
}

func TestTransientAPIError(t *testing.T) {
	testCases := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: 429}, true},
		{"server error", &openai.APIError{HTTPStatusCode: 503}, true},
		{"bad credentials", &openai.APIError{HTTPStatusCode: 401}, false},
		{"bad request", &openai.APIError{HTTPStatusCode: 400}, false},
		{"network failure", errors.New("dial tcp: connection refused"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := transientAPIError(tc.err); got != tc.retryable {
				t.Errorf("transientAPIError(%v) = %v, want %v", tc.err, got, tc.retryable)
			}
		})
	}
}
