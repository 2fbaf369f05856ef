package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/muhammadolammi/skillnest/internal/apierrors"
	"github.com/muhammadolammi/skillnest/internal/logger"
	"github.com/muhammadolammi/skillnest/internal/storage"
	"go.uber.org/zap"
)

const multipartMemory = 32 << 20

type upload struct {
	Key         string
	Filename    string
	ContentType string
	Data        []byte
}

// parseMultipart caps the body size and parses the form once. A url encoded
// form is accepted too; it simply carries no files.
func (s *Server) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if r.PostForm != nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apierrors.New(http.StatusRequestEntityTooLarge, "Request Entity Too Large",
				fmt.Sprintf("uploads are limited to %d bytes", s.maxUpload))
		}
		return apierrors.Invalid("invalid form data")
	}
	return nil
}

// formFile reads an optional file field. It returns nil when the field is absent.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request, field, folder string) (*upload, error) {
	if err := s.parseMultipart(w, r); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.Invalid("could not read " + field)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, apierrors.Invalid(field + " is empty")
	}
	ct := header.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return &upload{
		Key:         storage.NewKey(folder, header.Filename),
		Filename:    header.Filename,
		ContentType: ct,
		Data:        data,
	}, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field, folder string) (*upload, error) {
	up, err := s.formFile(w, r, field, folder)
	if err != nil {
		return nil, err
	}
	if up == nil {
		return nil, apierrors.Invalid(field + " is required")
	}
	return up, nil
}

// storeUpload writes the file to object storage and returns its public URL.
func (s *Server) storeUpload(r *http.Request, up *upload) (string, error) {
	if err := s.objects.Put(r.Context(), up.Key, up.ContentType, up.Data); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", up.Filename, err)
	}
	return s.objects.URL(up.Key), nil
}

// discardUploads deletes objects stored earlier in a request whose database
// write failed. Nil uploads are skipped.
func (s *Server) discardUploads(r *http.Request, ups ...*upload) {
	ctx := context.WithoutCancel(r.Context())
	for _, up := range ups {
		if up == nil {
			continue
		}
		if err := s.objects.Delete(ctx, up.Key); err != nil {
			logger.FromContext(r.Context(), s.logger).Warn("failed to discard upload",
				zap.String("key", up.Key), zap.Error(err))
		}
	}
}
