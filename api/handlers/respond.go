package handlers

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/shaj13/go-guardian/auth"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/config"
	"github.com/sajhasahayog/relief-api/intake"
	"github.com/sajhasahayog/relief-api/lifecycle"
	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/storage"
	"github.com/sajhasahayog/relief-api/validation"
)

// maxUploadSize caps the in-memory part of a multipart form, photo included
const maxUploadSize = 10 << 20

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

// serviceError maps workflow errors onto HTTP statuses
func serviceError(w http.ResponseWriter, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, validation.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, intake.ErrUploadFailed):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	config.ErrorStatus(message, status, w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return validation.Invalid("malformed request body: %v", err)
	}
	return nil
}

// readForm decodes a JSON body, or a multipart form with an optional photo under
// fileField. The returned cleanup must always be called.
func readForm(w http.ResponseWriter, r *http.Request, dst interface{}, fileField string) (*storage.Photo, func(), error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, noop, decodeJSON(r, dst)
	}

	r.Body = http.MaxBytesReader(w, r.Body, 2*maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, noop, validation.Invalid("malformed form: %v", err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	if err := formDecoder.Decode(dst, r.MultipartForm.Value); err != nil {
		return nil, cleanup, validation.Invalid("malformed form: %v", err)
	}

	file, header, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, validation.Invalid("unreadable %s file: %v", fileField, err)
	}
	photo := &storage.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return photo, func() {
		_ = file.Close()
		cleanup()
	}, nil
}

// requireUser returns the authenticated user, writing a 401 when there is none
func requireUser(w http.ResponseWriter, r *http.Request) (auth.Info, bool) {
	user, ok := api.UserFromContext(r.Context())
	if !ok {
		config.ErrorStatus("unauthorized", http.StatusUnauthorized, w, errors.New("no authenticated user"))
		return nil, false
	}
	return user, true
}
