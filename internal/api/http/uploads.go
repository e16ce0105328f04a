package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/service"
)

const multipartMemory = 8 << 20

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipart caps the body at maxBytes and parses the form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Validationf("upload exceeds the %d MB limit", maxBytes>>20)
		}
		return domain.Validationf("invalid multipart form: %v", err)
	}
	return nil
}

// formFile returns the uploaded file in field, or nil when none was sent.
// The returned close func must be called once the upload has been consumed.
func formFile(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, domain.Validationf("invalid %s upload: %v", field, err)
	}
	return &service.Upload{Filename: header.Filename, Reader: file}, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func formString(r *http.Request, name string) string {
	return strings.TrimSpace(r.FormValue(name))
}

func formInt64(r *http.Request, name string) (int64, error) {
	raw := formString(r, name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func formDate(r *http.Request, name string) (*time.Time, error) {
	raw := formString(r, name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, domain.Validationf("invalid %s %q, expected YYYY-MM-DD", name, raw)
	}
	return &t, nil
}
