package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunareve/lunar-go/internal/apperr"
)

func TestWriteAppErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperr.Validation("bad input"), http.StatusBadRequest, "validation"},
		{"conflict", apperr.Conflict("slug taken"), http.StatusConflict, "conflict"},
		{"authorization", apperr.Authorization("sign in first"), http.StatusUnauthorized, "authorization"},
		{"not found", apperr.NotFound("no such post"), http.StatusNotFound, "not_found"},
		{"storage", apperr.Storage(errors.New("disk full"), "could not store image"), http.StatusInternalServerError, "storage"},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAppError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

func TestWriteAppErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeAppError(rec, apperr.Backend(errors.New("dial tcp: connection refused"), "could not list posts"))

	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, rec.Body.String(), "could not list posts")
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Hello"}`))
		var p payload
		require.NoError(t, decodeJSON(req, &p))
		assert.Equal(t, "Hello", p.Title)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Hello","bogus":1}`))
		var p payload
		err := decodeJSON(req, &p)
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("trailing garbage", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Hello"}{"title":"Again"}`))
		var p payload
		require.Error(t, decodeJSON(req, &p))
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var p payload
		require.Error(t, decodeJSON(req, &p))
	})
}
