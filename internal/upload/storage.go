// Package upload fetches sick-leave certificates from the chat platform's CDN
// and persists them under the locally served uploads directory.
package upload

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// DownloadError marks a failed attachment fetch. The caller re-uploads;
// nothing gets persisted.
type DownloadError struct {
	Status string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("attachment download failed: %s", e.Status)
}

type Storage struct {
	dir     string
	urlPath string // public path prefix, e.g. "/uploads"
	http    *http.Client
}

func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{
		dir:     dir,
		urlPath: "/uploads",
		http:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (s *Storage) Dir() string { return s.dir }

// Save downloads the attachment at sourceURL and writes it under a generated
// name. Returns the public (path-relative) URL of the stored file.
func (s *Storage) Save(ctx context.Context, userID, originalName, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return "", &DownloadError{Status: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", &DownloadError{Status: resp.Status}
	}

	name := GenerateName(userID, originalName, time.Now())
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}

	return s.urlPath + "/" + name, nil
}

// Remove deletes a file previously returned by Save, identified by its
// public URL. Missing files are not an error.
func (s *Storage) Remove(fileURL string) error {
	name := filepath.Base(fileURL)
	if name == "." || name == "/" {
		return fmt.Errorf("invalid file url %q", fileURL)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GenerateName builds "<userID>_<unix millis>_<ulid>_<sanitized name>".
// The ULID covers the one collision the timestamp alone cannot: two uploads
// from the same caller in the same millisecond with identical filenames.
func GenerateName(userID, originalName string, now time.Time) string {
	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	return fmt.Sprintf("%s_%d_%s_%s", sanitize(userID), now.UnixMilli(), id.String(), sanitize(originalName))
}

// sanitize keeps the component safe as a single path segment.
func sanitize(v string) string {
	v = strings.TrimSpace(v)
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || strings.Trim(out, ".") == "" {
		return "file"
	}
	return out
}

// ResolveURL qualifies a stored relative URL with the configured public base.
// Already-absolute URLs pass through unchanged.
func ResolveURL(baseURL, fileURL string) string {
	if fileURL == "" {
		return ""
	}
	if strings.HasPrefix(fileURL, "http") {
		return fileURL
	}
	return strings.TrimRight(baseURL, "/") + fileURL
}
