package upload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestGenerateName(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 30, 0, 0, time.Local)

	got := GenerateName("123456789", "진단서.pdf", now)
	// <userID>_<millis>_<ulid>_<sanitized name>
	pattern := regexp.MustCompile(`^123456789_\d+_[0-9A-HJKMNP-TV-Z]{26}_[A-Za-z0-9._-]+$`)
	if !pattern.MatchString(got) {
		t.Errorf("GenerateName() = %q, want match %s", got, pattern)
	}
	if strings.Contains(got, "/") || strings.Contains(got, "..") {
		t.Errorf("GenerateName() = %q contains path syntax", got)
	}

	// same caller, same millisecond, same filename must still differ
	other := GenerateName("123456789", "진단서.pdf", now)
	if got == other {
		t.Errorf("two names identical: %q", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "report.pdf", want: "report.pdf"},
		{in: "my report (1).pdf", want: "my_report__1_.pdf"},
		{in: "../../etc/passwd", want: ".._.._etc_passwd"},
		{in: "진단서.pdf", want: "___.pdf"},
		{in: "", want: "file"},
		{in: "...", want: "file"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.in); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		url  string
		want string
	}{
		{name: "relative qualified", base: "http://bot.example.com", url: "/uploads/a.pdf", want: "http://bot.example.com/uploads/a.pdf"},
		{name: "base trailing slash", base: "http://bot.example.com/", url: "/uploads/a.pdf", want: "http://bot.example.com/uploads/a.pdf"},
		{name: "absolute passthrough", base: "http://bot.example.com", url: "https://cdn.example.com/a.pdf", want: "https://cdn.example.com/a.pdf"},
		{name: "empty", base: "http://bot.example.com", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.url); got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSave(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("certificate bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := NewStorage(dir)
	if err != nil {
		t.Fatal(err)
	}

	url, err := s.Save(context.Background(), "u1", "cert.pdf", srv.URL+"/cert.pdf")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/u1_") {
		t.Errorf("Save() url = %q, want /uploads/u1_... prefix", url)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "certificate bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := NewStorage(dir)
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.Save(context.Background(), "u1", "gone.pdf", srv.URL+"/gone.pdf")
	var dl *DownloadError
	if !errors.As(err, &dl) {
		t.Fatalf("Save() error = %v, want DownloadError", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files written on failure: %d", len(entries))
	}
}

func TestRemove(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("certificate bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s, err := NewStorage(dir)
	if err != nil {
		t.Fatal(err)
	}

	url, err := s.Save(context.Background(), "u1", "cert.pdf", srv.URL+"/cert.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(url); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("files left after Remove: %d", len(entries))
	}

	// already gone is fine
	if err := s.Remove(url); err != nil {
		t.Errorf("Remove() of missing file = %v, want nil", err)
	}
}

func TestNewStorageCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	if _, err := NewStorage(dir); err != nil {
		t.Fatalf("NewStorage() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("upload dir not created: %v", err)
	}
}
