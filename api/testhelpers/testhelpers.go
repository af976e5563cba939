// Package testhelpers builds authenticated requests and reads error bodies in handler tests.
package testhelpers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/shaj13/go-guardian/auth"
	"github.com/stretchr/testify/require"

	"github.com/sajhasahayog/relief-api/api"
	"github.com/sajhasahayog/relief-api/models"
)

// AsUser returns r as the auth middleware leaves it for user id with role
func AsUser(r *http.Request, id string, role models.Role) *http.Request {
	info := auth.NewDefaultUser(id+"@example.com", id, []string{string(role)}, nil)
	return r.WithContext(api.WithUser(r.Context(), info))
}

// ErrorMessage decodes an error body written by config.ErrorStatus
func ErrorMessage(t *testing.T, body []byte) models.MessageError {
	t.Helper()
	var resp models.ErrorMessageResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp.Response
}

// Multipart encodes fields and, when file is not nil, one file under fileField. It returns
// the body and its Content-Type.
func Multipart(t *testing.T, fields map[string]string, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(fileField, "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}
