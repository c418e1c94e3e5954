/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package pages provides the sources page markup is loaded from.
package pages

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// StatusError reports a non-success response from a page server.
type StatusError struct {
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to load page at %q: %s", e.Path, e.Status)
}

// FS serves pages from a file system, typically an embed.FS. Paths are
// looked up with the namespace stripped.
type FS struct {
	Files     fs.FS
	Namespace string
}

func (s FS) Page(_ context.Context, path string) (string, error) {
	name := strings.TrimPrefix(strings.TrimPrefix(path, s.Namespace), "/")

	data, err := fs.ReadFile(s.Files, name)
	if err != nil {
		return "", fmt.Errorf("failed to load page at %q: %w", path, err)
	}

	return string(data), nil
}

// HTTP fetches pages with a GET against BaseURL joined with the path.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTP) Page(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)

		return "", &StatusError{
			Path:   path,
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}
