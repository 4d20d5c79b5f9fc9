package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"loan-eligibility/domain"
	"loan-eligibility/service"
)

type LoanHandler struct {
	eligibility *service.EligibilityService
	chat        *service.ChatService
	logger      logrus.FieldLogger
	now         func() time.Time
}

func NewLoanHandler(
	eligibility *service.EligibilityService,
	chat *service.ChatService,
	logger logrus.FieldLogger,
) *LoanHandler {
	return &LoanHandler{
		eligibility: eligibility,
		chat:        chat,
		logger:      logger,
		now:         time.Now,
	}
}

type eligibilityResponse struct {
	Success bool `json:"success"`
	domain.EligibilityResult
}

type scheduleRequest struct {
	domain.PaymentInput
	StartDate time.Time `json:"startDate"`
}

type scheduleResponse struct {
	domain.PaymentSummary
	Schedule []domain.ScheduleEntry `json:"schedule"`
}

// CheckEligibility assesses a loan request against the caller's account.
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	var req domain.LoanRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.WithError(err).Debug("Error decoding eligibility request")
		badRequest(w, h.logger, "invalid request body")
		return
	}

	result, err := h.eligibility.Assess(r.Context(), userID, req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, eligibilityResponse{Success: true, EligibilityResult: result})
}

// Chat takes one conversational turn. The client echoes back the state it
// received from the previous turn.
func (h *LoanHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		writeError(w, h.logger, domain.ErrUnauthorized)
		return
	}

	var turn service.ChatTurn
	if err := decodeBody(w, r, &turn); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}
	if turn.Message == "" {
		badRequest(w, h.logger, "message is required")
		return
	}

	reply, err := h.chat.HandleTurn(r.Context(), userID, turn)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, reply)
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.PaymentInput
	if err := decodeBody(w, r, &input); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}
	if input.TermMonths > service.MaxTermMonths {
		writeError(w, h.logger, fmt.Errorf("%w: at most %d months", domain.ErrInvalidTerm, service.MaxTermMonths))
		return
	}

	result, err := service.CalculatePayment(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *LoanHandler) PaymentSchedule(w http.ResponseWriter, r *http.Request) {
	var input scheduleRequest
	if err := decodeBody(w, r, &input); err != nil {
		badRequest(w, h.logger, "invalid request body")
		return
	}
	start := input.StartDate
	if start.IsZero() {
		start = h.now().UTC()
	}

	schedule, err := service.AmortizationSchedule(input.Amount, input.InterestRate, input.TermMonths, start)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	summary, err := service.CalculatePayment(input.Amount, input.InterestRate, input.TermMonths)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, scheduleResponse{PaymentSummary: summary, Schedule: schedule})
}
