package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "fuelguard/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	DeliveryNumber string `json:"delivery_number"`
	normalized     bool
}

func (r *sampleRequest) Normalize() {
	r.DeliveryNumber = strings.ToUpper(strings.TrimSpace(r.DeliveryNumber))
	r.normalized = true
}

func (r *sampleRequest) Validate() error {
	if r.DeliveryNumber == "" {
		return errors.New("delivery_number is required")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes a valid body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"delivery_number":"dn-1"}`))
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[sampleRequest](w, r, nil, context.Background(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "dn-1", req.DeliveryNumber)
	})

	t.Run("writes bad_request on malformed JSON", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"delivery_number":`))
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[sampleRequest](w, r, nil, context.Background(), "req-2")
		assert.False(t, ok)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "bad_request", body["error"])
	})
}

func TestPrepareRequest(t *testing.T) {
	req := &sampleRequest{DeliveryNumber: "  dn-7 "}
	require.NoError(t, PrepareRequest(req))
	assert.True(t, req.normalized)
	assert.Equal(t, "DN-7", req.DeliveryNumber)

	assert.Error(t, PrepareRequest(&sampleRequest{}))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", dErrors.New(dErrors.CodeInvalidInput, "bad quantity"), http.StatusBadRequest, "invalid_input"},
		{"canceled", dErrors.New(dErrors.CodeCanceled, "caller canceled"), StatusClientClosedRequest, "request_canceled"},
		{"timeout", dErrors.New(dErrors.CodeTimeout, "deadline"), http.StatusGatewayTimeout, "timeout"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes a valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"delivery_number":" dn-9 "}`))
		req, ok := DecodeAndPrepare[sampleRequest](w, r, nil, context.Background(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "DN-9", req.DeliveryNumber)
	})

	t.Run("plain validation error becomes 422", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
		req, ok := DecodeAndPrepare[sampleRequest](w, r, nil, context.Background(), "req-2")
		assert.False(t, ok)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
