package http

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
	"loan-eligibility/service"
)

const (
	defaultMinTerm     = 1
	defaultMaxTerm     = 60
	defaultTermOptions = 3
)

type TermRecommendationHandler struct {
	logger logrus.FieldLogger
}

func NewTermRecommendationHandler(logger logrus.FieldLogger) *TermRecommendationHandler {
	return &TermRecommendationHandler{logger: logger}
}

type termRecommendationRequest struct {
	Amount             decimal.Decimal `json:"amount"`
	InterestRate       decimal.Decimal `json:"interestRate"`
	NetMonthlyCashFlow decimal.Decimal `json:"netMonthlyCashFlow"`
	MinTermMonths      int             `json:"minTermMonths"`
	MaxTermMonths      int             `json:"maxTermMonths"`
	Limit              int             `json:"limit"`
}

type termRecommendationResponse struct {
	Options []domain.TermOption `json:"options"`
}

// RecommendTerm lists terms whose payment the given cash flow covers with
// headroom, cheapest first.
func (h *TermRecommendationHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		writeJSON(w, h.logger, http.StatusUnsupportedMediaType, errorResponse{Error: "Content-Type must be application/json"})
		return
	}

	var input termRecommendationRequest
	if err := decodeBody(w, r, &input); err != nil {
		h.logger.WithError(err).Debug("Error decoding request body")
		badRequest(w, h.logger, "invalid request body")
		return
	}
	if !input.Amount.IsPositive() {
		writeError(w, h.logger, domain.ErrInvalidAmount)
		return
	}
	if input.InterestRate.IsNegative() {
		writeError(w, h.logger, domain.ErrInvalidRate)
		return
	}

	if input.MinTermMonths <= 0 {
		input.MinTermMonths = defaultMinTerm
	}
	if input.MaxTermMonths <= 0 {
		input.MaxTermMonths = defaultMaxTerm
	}
	if input.MaxTermMonths < input.MinTermMonths || input.MaxTermMonths > service.MaxTermMonths {
		writeError(w, h.logger, domain.ErrInvalidTerm)
		return
	}
	if input.Limit <= 0 {
		input.Limit = defaultTermOptions
	}

	options := service.AffordableTerms(input.Amount, input.InterestRate, input.NetMonthlyCashFlow,
		input.MinTermMonths, input.MaxTermMonths, input.Limit)
	if options == nil {
		options = []domain.TermOption{}
	}
	writeJSON(w, h.logger, http.StatusOK, termRecommendationResponse{Options: options})
}
