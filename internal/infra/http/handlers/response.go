package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/xavierca1/rog-store/internal/usecase"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string                   `json:"error"`
	Message string                   `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeError traduz os erros do usecase para status HTTP. 5xx é logado com a causa; o cliente só vê a mensagem.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		ve usecase.ValidationErrors
		de *usecase.DomainError
		te *usecase.TechnicalError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: usecase.CodeInvalidInput, Message: "dados inválidos", Fields: ve})
	case errors.As(err, &de):
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
	case errors.As(err, &te):
		status := http.StatusInternalServerError
		if te.Code == usecase.CodeGateway || te.Code == "SHIPPING_ERROR" {
			status = http.StatusBadGateway
		}
		if logger != nil {
			logger.Error("❌ erro técnico", zap.String("code", te.Code), zap.Error(te.Err))
		}
		writeErrorResponse(w, status, te.Code, te.Message)
	default:
		if logger != nil {
			logger.Error("❌ erro inesperado", zap.Error(err))
		}
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
	}
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeConflict, usecase.CodeInvalidState, usecase.CodeOutOfStock:
		return http.StatusConflict
	case usecase.CodeUnauthorized:
		return http.StatusUnauthorized
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeVoucherRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON lê no máximo 1MB e recusa campos desconhecidos.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "corpo da requisição vazio")
			return false
		}
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
