package usecase

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"community-board/internal/apperr"
	"community-board/pkg/storage"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is one file taken from a multipart request.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

type UploadPolicy struct {
	MaxBytes     int64
	SniffContent bool
}

type imageUploader struct {
	store  storage.Storage
	policy UploadPolicy
}

func newImageUploader(store storage.Storage, policy UploadPolicy) *imageUploader {
	return &imageUploader{store: store, policy: policy}
}

// imageExtension returns the lower-cased extension when it is an accepted image type.
func imageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := imageContentTypes[ext]; !ok {
		return "", apperr.ErrInvalidFile
	}
	return ext, nil
}

// save stores the file at keyPrefix plus the file's extension and returns its public URL.
func (u *imageUploader) save(ctx context.Context, keyPrefix string, file Upload) (string, error) {
	ext, err := imageExtension(file.Filename)
	if err != nil {
		return "", err
	}
	if u.policy.MaxBytes > 0 && file.Size > u.policy.MaxBytes {
		return "", apperr.ErrFileTooLarge
	}
	if file.Body == nil {
		return "", apperr.ErrInvalidFile
	}

	body := file.Body
	if u.policy.MaxBytes > 0 {
		body = io.LimitReader(body, u.policy.MaxBytes+1)
	}
	if u.policy.SniffContent {
		body, err = sniffImage(body, imageContentTypes[ext])
		if err != nil {
			return "", err
		}
	}

	counted := &countingReader{r: body}
	url, err := u.store.Save(ctx, keyPrefix+ext, counted, imageContentTypes[ext])
	if err != nil {
		return "", apperr.Internal(err)
	}
	if u.policy.MaxBytes > 0 && counted.n > u.policy.MaxBytes {
		_ = u.store.Delete(ctx, keyPrefix+ext)
		return "", apperr.ErrFileTooLarge
	}
	return url, nil
}

// sniffImage checks the leading bytes against the type implied by the extension and returns a
// reader that still yields the whole body.
func sniffImage(body io.Reader, want string) (io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperr.Internal(err)
	}
	head = head[:n]

	if !mimetype.Detect(head).Is(want) {
		return nil, apperr.ErrInvalidFile
	}
	return io.MultiReader(bytes.NewReader(head), body), nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
