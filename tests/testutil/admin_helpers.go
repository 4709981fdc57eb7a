package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/kendall-kelly/cleanrush-laundry-api/middleware"
)

// NewJSONRequest builds a request with an optional JSON body
func NewJSONRequest(method, url string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// NewAdminRequest is NewJSONRequest with the admin PIN header set
func NewAdminRequest(method, url, pin string, body interface{}) (*http.Request, error) {
	req, err := NewJSONRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(middleware.AdminPINHeader, pin)
	return req, nil
}

// DecodeEnvelope reads a {"success": ..., "data": ...} response body
func DecodeEnvelope(body io.Reader) (map[string]interface{}, error) {
	var response map[string]interface{}
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}
	return response, nil
}
