package http

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
	"loan-eligibility/service"
)

type ConfirmationHandler struct {
	service *service.ConfirmationService
	logger  logrus.FieldLogger
}

func NewConfirmationHandler(service *service.ConfirmationService, logger logrus.FieldLogger) *ConfirmationHandler {
	return &ConfirmationHandler{service: service, logger: logger}
}

type confirmRequest struct {
	DecisionID string `json:"decisionId"`
}

type confirmResponse struct {
	Success bool        `json:"success"`
	Loan    domain.Loan `json:"loan"`
}

type historyResponse struct {
	Loans []domain.Loan `json:"loans"`
}

func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	var req confirmRequest
	if err := decodeBody(w, r, &req); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}
	req.DecisionID = strings.TrimSpace(req.DecisionID)
	if req.DecisionID == "" {
		badRequest(w, h.logger, "decisionId is required")
		return
	}

	loan, err := h.service.Confirm(r.Context(), userID, req.DecisionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, confirmResponse{Success: true, Loan: loan})
}

func (h *ConfirmationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	loans, err := h.service.History(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, historyResponse{Loans: loans})
}
