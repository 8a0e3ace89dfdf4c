package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thevinciapp/vinci-hub/internal/gateway"
	"github.com/thevinciapp/vinci-hub/internal/model"
	"github.com/thevinciapp/vinci-hub/internal/service"
)

func TestRespondSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond(rec, map[string]string{"id": "s1"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
	assert.JSONEq(t, `{"id":"s1"}`, string(env.Data))
}

func TestRespondErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &service.ValidationError{Msg: "name is required"}, http.StatusBadRequest},
		{"not found", &service.NotFoundError{Msg: "Conversation not found in current list"}, http.StatusNotFound},
		{"remote", &gateway.RemoteError{Op: "fetch_spaces", StatusCode: 500, Message: "boom"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respond(rec, nil, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var env model.Envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.err.Error(), env.Error)
			assert.Nil(t, env.Data)
		})
	}
}

func TestDecodeRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	var out model.SearchRequest
	err := decode(req, &out)

	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
}
