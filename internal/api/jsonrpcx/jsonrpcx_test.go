package jsonrpcx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		method  string
	}{
		{"valid", `{"jsonrpc":"2.0","method":"lecturer.Get","params":{"id":"a"},"id":1}`, false, "lecturer.Get"},
		{"wrong version", `{"jsonrpc":"1.0","method":"lecturer.Get","id":1}`, true, ""},
		{"missing version", `{"method":"lecturer.Get","id":1}`, true, ""},
		{"malformed", `{"jsonrpc":`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/v1/lecturer.Get", strings.NewReader(tt.body))

			req, err := ParseRequest(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
		})
	}
}

func TestDecodeParams(t *testing.T) {
	req := &Request{Params: json.RawMessage(`{"id":"lec-1"}`)}

	var params struct {
		ID string `json:"id"`
	}
	require.NoError(t, req.DecodeParams(&params))
	assert.Equal(t, "lec-1", params.ID)

	assert.Error(t, (&Request{}).DecodeParams(&params))
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Success(rec, float64(7), map[string]string{"message": "pong"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"jsonrpc":"2.0","result":{"message":"pong"},"id":7}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	original := r

	WithError(r, "abc", LecturerNotFound, "Lecturer not found")

	resp, ok := ErrorFromContext(original.Context())
	require.True(t, ok, "error must be visible through the original pointer")
	assert.Equal(t, LecturerNotFound, resp.Error.Code)
	assert.Equal(t, "abc", resp.ID)
}

func TestSendError(t *testing.T) {
	rec := httptest.NewRecorder()

	SendError(rec, nil, Unauthorized, "Unauthorized")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jsonrpc":"2.0","error":{"code":-32001,"message":"Unauthorized"}}`, rec.Body.String())
}

func TestNewNotification(t *testing.T) {
	data, err := json.Marshal(NewNotification("lecturer.deleted", map[string]string{"id": "x"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"jsonrpc":"2.0","method":"lecturer.deleted","params":{"id":"x"}}`, string(data))
}

func TestWithError_ReachesSlotThroughDerivedRequest(t *testing.T) {
	outer := httptest.NewRequest(http.MethodPost, "/", nil)
	outer = outer.WithContext(NewErrorContext(outer.Context()))

	type key struct{}
	inner := outer.WithContext(context.WithValue(outer.Context(), key{}, "principal"))

	WithError(inner, 1, Unauthorized, "Unauthorized")

	resp, ok := ErrorFromContext(outer.Context())
	require.True(t, ok)
	assert.Equal(t, Unauthorized, resp.Error.Code)

	_, ok = ErrorFromContext(NewErrorContext(context.Background()))
	assert.False(t, ok)
}
