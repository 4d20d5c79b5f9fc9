package http

import (
	"bytes"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
)

const maxBodyBytes = 1 << 20

// Amounts go over the wire as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// writeJSON encodes into a buffer first so a failed encode never leaves a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, logger logrus.FieldLogger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logger.WithError(err).Error("Error encoding response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.WithError(err).Warn("Error writing response")
	}
}

func writeError(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}

	switch status {
	case http.StatusBadGateway:
		resp.Error = "loan assessment is temporarily unavailable, please try again"
		resp.Retryable = true
	case http.StatusInternalServerError:
		logger.WithError(err).Error("Unhandled error")
		resp.Error = "internal server error"
	}
	writeJSON(w, logger, status, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidTerm),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrAmountNotUnderstood):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrDecisionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateLoan):
		return http.StatusConflict
	case errors.Is(err, domain.ErrData),
		errors.Is(err, domain.ErrDecisionNotEligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOracleResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body of at most maxBodyBytes.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter, logger logrus.FieldLogger, msg string) {
	writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: msg})
}
