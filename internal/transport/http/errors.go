package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jesuschirre/client-ecom/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeRateLimited          = "rate_limited"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidID            = "invalid_id"
	codeInvalidDate          = "invalid_date"
	codeInvalidDateRange     = "invalid_date_range"
	codeEndDateRequired      = "end_date_required"
	codeInvalidDuration      = "invalid_duration"
	codeEmptyEmission        = "empty_emission_pattern"
	codeInvalidWeekday       = "invalid_weekday"
	codeInvalidDiscount      = "invalid_discount"
	codeInvalidRate          = "invalid_rate"
	codeInvalidAmount        = "invalid_amount"
	codeInvalidSlots         = "invalid_slots"
	codeInvalidStatus        = "invalid_status"
	codeClientRequired       = "client_required"
	codeCampaignRequired     = "campaign_name_required"
	codePlanNotFound         = "plan_not_found"
	codePlanDisabled         = "plan_disabled"
	codeContractNotFound     = "contract_not_found"
	codeContractCancelled    = "contract_cancelled"
	codeContractNotPending   = "contract_not_pending"
	codeInsufficientSlots    = "insufficient_slots"
	codeAvailabilityUnknown  = "availability_unknown"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{domain.ErrInvalidID, http.StatusBadRequest, codeInvalidID},
	{domain.ErrInvalidDate, http.StatusBadRequest, codeInvalidDate},
	{domain.ErrInvalidDateRange, http.StatusBadRequest, codeInvalidDateRange},
	{domain.ErrEndDateRequired, http.StatusBadRequest, codeEndDateRequired},
	{domain.ErrInvalidDuration, http.StatusBadRequest, codeInvalidDuration},
	{domain.ErrEmptyEmissionPattern, http.StatusBadRequest, codeEmptyEmission},
	{domain.ErrInvalidWeekday, http.StatusBadRequest, codeInvalidWeekday},
	{domain.ErrInvalidDiscount, http.StatusBadRequest, codeInvalidDiscount},
	{domain.ErrInvalidRate, http.StatusUnprocessableEntity, codeInvalidRate},
	{domain.ErrInvalidAmount, http.StatusBadRequest, codeInvalidAmount},
	{domain.ErrInvalidSlots, http.StatusBadRequest, codeInvalidSlots},
	{domain.ErrInvalidStatus, http.StatusBadRequest, codeInvalidStatus},
	{domain.ErrClientRequired, http.StatusBadRequest, codeClientRequired},
	{domain.ErrCampaignNameRequired, http.StatusBadRequest, codeCampaignRequired},
	{domain.ErrPlanNotFound, http.StatusNotFound, codePlanNotFound},
	{domain.ErrPlanDisabled, http.StatusConflict, codePlanDisabled},
	{domain.ErrContractNotFound, http.StatusNotFound, codeContractNotFound},
	{domain.ErrContractCancelled, http.StatusConflict, codeContractCancelled},
	{domain.ErrContractNotPending, http.StatusConflict, codeContractNotPending},
	{domain.ErrInsufficientSlots, http.StatusConflict, codeInsufficientSlots},
	{domain.ErrAvailabilityUnknown, http.StatusServiceUnavailable, codeAvailabilityUnknown},
}

// writeServiceError maps a service error to its status and code. Anything
// unrecognised is a 500 and its message is not leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, m.err.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
