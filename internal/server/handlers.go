package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saps13/sip/internal/apperr"
	"github.com/saps13/sip/internal/domain"
	"github.com/saps13/sip/internal/metrics"
	"github.com/saps13/sip/internal/service"
)

const dateLayout = "2006-01-02"

// SIPHandlers exposes the HTTP handlers for the REST API.
type SIPHandlers struct {
	logger  *slog.Logger
	service *service.SIPService
	metrics *metrics.Metrics
}

// NewSIPHandlers constructs a SIPHandlers instance. metrics may be nil.
func NewSIPHandlers(logger *slog.Logger, svc *service.SIPService, m *metrics.Metrics) *SIPHandlers {
	return &SIPHandlers{
		logger:  logger,
		service: svc,
		metrics: m,
	}
}

func (h *SIPHandlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload signupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.SignUp(r.Context(), service.SignupInput{
		Username: payload.Username,
		Password: payload.Password,
		Metadata: payload.Metadata,
	})
	if err != nil {
		h.logger.Error("signup failed", "error", err, "requestId", requestID(r.Context()))
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SignupsCreated.Inc()
	}
	h.logger.Info("user created", "userId", result.UserID, "email", result.Email)

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "User created successfully.",
		UserID:  result.UserID,
	})
}

func (h *SIPHandlers) handleCreateSIP(w http.ResponseWriter, r *http.Request) {
	var payload sipRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	startDate, err := time.Parse(dateLayout, payload.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}

	err = h.service.CreateSIP(r.Context(), service.CreateSIPInput{
		UserID:        payload.UserID,
		SchemeName:    payload.SchemeName,
		MonthlyAmount: payload.MonthlyAmount,
		StartDate:     startDate,
	})
	if err != nil {
		h.logger.Error("sip creation failed", "error", err, "userId", payload.UserID, "requestId", requestID(r.Context()))
		writeServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SIPsCreated.Inc()
	}
	h.logger.Info("sip created", "userId", payload.UserID, "scheme", payload.SchemeName)

	respondJSON(w, http.StatusCreated, authResponse{
		Message: "SIP created successfully.",
		UserID:  payload.UserID,
	})
}

func (h *SIPHandlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		h.logger.Error("summary failed", "error", err, "userId", userID, "requestId", requestID(r.Context()))
		writeServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryResponseFrom(summary))
}

// --- Request & Response DTOs ---

type signupRequest struct {
	Username string         `json:"username"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata"`
}

type sipRequest struct {
	UserID        string `json:"user_id"`
	SchemeName    string `json:"scheme_name"`
	MonthlyAmount int64  `json:"monthly_amount"`
	StartDate     string `json:"start_date"`
}

type authResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type schemeSummaryResponse struct {
	SchemeName      string `json:"scheme_name"`
	TotalInvestment int64  `json:"total_investment"`
	MonthsInvested  int    `json:"months_invested"`
}

type summaryResponse struct {
	Schemes         []schemeSummaryResponse `json:"schemes"`
	TotalInvestment int64                   `json:"total_investment"`
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
}

func summaryResponseFrom(summary domain.InvestmentSummary) summaryResponse {
	resp := summaryResponse{
		Schemes:         make([]schemeSummaryResponse, 0, len(summary.Schemes)),
		TotalInvestment: summary.TotalInvestment,
	}
	for _, scheme := range summary.Schemes {
		resp.Schemes = append(resp.Schemes, schemeSummaryResponse{
			SchemeName:      scheme.SchemeName,
			TotalInvestment: scheme.TotalInvestment,
			MonthsInvested:  scheme.MonthsInvested,
		})
	}
	return resp
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeServiceError maps the error kind to a status code while passing
// the message through verbatim.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, apperr.StatusOf(err), err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{
		Error:      msg,
		StatusCode: status,
	})
}
