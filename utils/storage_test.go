package utils

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fileHeader builds a real multipart header the way gin would hand it over.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestLocalStorage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, 1<<20)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := s.Save(ctx, fileHeader(t, "Cover.PNG", []byte("png-bytes")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(stored.URL, "uploads/") || !strings.HasSuffix(stored.URL, ".png") {
		t.Errorf("URL = %q, want uploads/<name>.png", stored.URL)
	}
	got, err := os.ReadFile(filepath.Join(dir, stored.Key))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png-bytes" {
		t.Errorf("stored content = %q", got)
	}

	if err := s.Remove(ctx, stored.Key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, stored.Key)); !os.IsNotExist(err) {
		t.Error("file still present after Remove")
	}
	if err := s.Remove(ctx, "../escape"); err == nil {
		t.Error("Remove accepted a path outside the upload dir")
	}
}

func TestLocalStorage_tooLarge(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, 4)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.Save(context.Background(), fileHeader(t, "big.jpg", []byte("0123456789")))
	if !IsErrorCode(err, ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d files left behind", len(entries))
	}
}
