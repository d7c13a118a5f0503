package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/pkg/errors"
)

// File is one image to upload.
type File struct {
	Name    string
	Content io.Reader
}

// Uploads sends images to the backend's hosted storage.
type Uploads struct{ base }

// Status reports whether image hosting is configured on the backend.
func (u *Uploads) Status(ctx context.Context) (json.RawMessage, error) {
	return u.get(ctx, "/upload/status", nil)
}

// Single uploads one image in the "image" form field.
func (u *Uploads) Single(ctx context.Context, file File) (json.RawMessage, error) {
	return u.upload(ctx, "/upload/single", "image", []File{file})
}

// Multiple uploads images, each in an "images" form field.
func (u *Uploads) Multiple(ctx context.Context, files []File) (json.RawMessage, error) {
	if len(files) == 0 {
		return nil, errors.New("[Uploads.Multiple] no files")
	}
	return u.upload(ctx, "/upload/multiple", "images", files)
}

func (u *Uploads) upload(ctx context.Context, path, field string, files []File) (json.RawMessage, error) {
	body, contentType, err := multipartBody(field, files)
	if err != nil {
		return nil, errors.Wrapf(err, "[Uploads] %s", path)
	}
	return u.send(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		RawBody:     body,
		ContentType: contentType,
	})
}

// multipartBody buffers the form so a retry after a token refresh re-sends it.
func multipartBody(field string, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i, f := range files {
		if f.Content == nil {
			return nil, "", fmt.Errorf("file %d (%q) has no content", i, f.Name)
		}
		name := f.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", field, i)
		}
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("read %q: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
