package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", &usecase.DomainError{Code: usecase.CodeNotFound, Message: "x"}, http.StatusNotFound, usecase.CodeNotFound},
		{"conflict", &usecase.DomainError{Code: usecase.CodeConflict, Message: "x"}, http.StatusConflict, usecase.CodeConflict},
		{"invalid state", &usecase.DomainError{Code: usecase.CodeInvalidState, Message: "x"}, http.StatusConflict, usecase.CodeInvalidState},
		{"out of stock", &usecase.DomainError{Code: usecase.CodeOutOfStock, Message: "x"}, http.StatusConflict, usecase.CodeOutOfStock},
		{"unauthorized", &usecase.DomainError{Code: usecase.CodeUnauthorized, Message: "x"}, http.StatusUnauthorized, usecase.CodeUnauthorized},
		{"forbidden", &usecase.DomainError{Code: usecase.CodeForbidden, Message: "x"}, http.StatusForbidden, usecase.CodeForbidden},
		{"voucher", &usecase.DomainError{Code: usecase.CodeVoucherRejected, Message: "x"}, http.StatusUnprocessableEntity, usecase.CodeVoucherRejected},
		{"invalid input", &usecase.DomainError{Code: usecase.CodeInvalidInput, Message: "x"}, http.StatusBadRequest, usecase.CodeInvalidInput},
		{"gateway", &usecase.TechnicalError{Code: usecase.CodeGateway, Message: "x"}, http.StatusBadGateway, usecase.CodeGateway},
		{"shipping", &usecase.TechnicalError{Code: "SHIPPING_ERROR", Message: "x"}, http.StatusBadGateway, "SHIPPING_ERROR"},
		{"database", &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "x"}, http.StatusInternalServerError, usecase.CodeDatabase},
		{"wrapped domain", fmt.Errorf("ctx: %w", &usecase.DomainError{Code: usecase.CodeNotFound, Message: "x"}), http.StatusNotFound, usecase.CodeNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body errorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, zap.NewNop(), usecase.ValidationErrors{{Field: "email", Message: "inválido"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body errorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "email", body.Fields[0].Field)
}

func TestWriteError_HidesUnexpectedCause(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, zap.NewNop(), errors.New("pq: senha do banco errada"))
	assert.NotContains(t, w.Body.String(), "senha")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	t.Run("ok", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ROG"}`))
		assert.True(t, decodeJSON(httptest.NewRecorder(), r, &dst))
		assert.Equal(t, "ROG", dst.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		assert.False(t, decodeJSON(w, r, &dst))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"x"}`))
		assert.False(t, decodeJSON(w, r, &dst))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
