package utils

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// StoredCover identifies a saved cover image.
// URL is what gets persisted on the post, Key is what Remove needs.
type StoredCover struct {
	URL string
	Key string
}

// CoverStorage persists uploaded cover images.
type CoverStorage interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (StoredCover, error)
	Remove(ctx context.Context, key string) error
}

// LocalStorage writes covers below Dir and exposes them under the "uploads/" prefix.
type LocalStorage struct {
	Dir      string
	MaxBytes int64
}

// NewLocalStorage creates the upload directory if needed.
func NewLocalStorage(dir string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &LocalStorage{Dir: dir, MaxBytes: maxBytes}, nil
}

func (s *LocalStorage) Save(ctx context.Context, fh *multipart.FileHeader) (StoredCover, error) {
	if s.MaxBytes > 0 && fh.Size > s.MaxBytes {
		return StoredCover{}, CoverTooLarge(s.MaxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return StoredCover{}, NewValidationError("Cover file could not be read")
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	dstPath := filepath.Join(s.Dir, name)
	out, err := os.Create(dstPath)
	if err != nil {
		return StoredCover{}, NewInternalError("failed to save cover", err)
	}

	var r io.Reader = src
	if s.MaxBytes > 0 {
		r = &io.LimitedReader{R: src, N: s.MaxBytes + 1}
	}
	written, err := io.Copy(out, r)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return StoredCover{}, NewInternalError("failed to write cover", err)
	}
	if s.MaxBytes > 0 && written > s.MaxBytes {
		_ = os.Remove(dstPath)
		return StoredCover{}, CoverTooLarge(s.MaxBytes)
	}

	return StoredCover{URL: path.Join("uploads", name), Key: name}, nil
}

func (s *LocalStorage) Remove(ctx context.Context, key string) error {
	if key == "" || key != filepath.Base(key) {
		return fmt.Errorf("invalid cover key %q", key)
	}
	err := os.Remove(filepath.Join(s.Dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CloudinaryStorage uploads covers to a Cloudinary folder.
type CloudinaryStorage struct {
	cld      *cloudinary.Cloudinary
	folder   string
	maxBytes int64
}

// NewCloudinaryStorage configures the client from a cloudinary:// URL.
func NewCloudinaryStorage(cloudinaryURL, folder string, maxBytes int64) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration error: %w", err)
	}
	return &CloudinaryStorage{cld: cld, folder: folder, maxBytes: maxBytes}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, fh *multipart.FileHeader) (StoredCover, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return StoredCover{}, CoverTooLarge(s.maxBytes)
	}
	src, err := fh.Open()
	if err != nil {
		return StoredCover{}, NewValidationError("Cover file could not be read")
	}
	defer src.Close()

	res, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:         s.folder,
		PublicID:       uuid.NewString(),
		Transformation: "c_limit,w_1600,q_auto",
	})
	if err != nil {
		return StoredCover{}, NewInternalError("failed to upload cover to Cloudinary", err)
	}
	if res.Error.Message != "" {
		return StoredCover{}, NewInternalError("failed to upload cover to Cloudinary", fmt.Errorf("%s", res.Error.Message))
	}
	return StoredCover{URL: res.SecureURL, Key: res.PublicID}, nil
}

func (s *CloudinaryStorage) Remove(ctx context.Context, key string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	return err
}

// CoverTooLarge is the VALIDATION error for a cover over max bytes.
func CoverTooLarge(max int64) *AppError {
	return NewValidationError(fmt.Sprintf("Cover file exceeds %dMB", max>>20))
}
